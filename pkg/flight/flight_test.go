package flight

import (
	"testing"

	"github.com/SMerrony/tello"

	"github.com/droneworks/tellopilot/pkg/control"
)

func TestStatusFromSDK(t *testing.T) {
	fd := tello.FlightData{
		BatteryPercentage: 42,
		Height:            15, // decimetres
		Flying:            true,
		WifiStrength:      90,
		BatteryLow:        true,
	}

	st := statusFromSDK(fd)

	if st.Battery != 42 {
		t.Errorf("Battery = %d, want 42", st.Battery)
	}
	if st.Height != 1.5 {
		t.Errorf("Height = %v m, want 1.5", st.Height)
	}
	if !st.Flying || st.OnGround {
		t.Errorf("Flying/OnGround = %v/%v, want true/false", st.Flying, st.OnGround)
	}
	if st.WifiStrength != 90 {
		t.Errorf("WifiStrength = %d, want 90", st.WifiStrength)
	}
	if !st.BatteryLow {
		t.Error("BatteryLow should carry over")
	}
}

func TestStatusFromSDK_CriticalBatteryFlagsLow(t *testing.T) {
	st := statusFromSDK(tello.FlightData{BatteryCritical: true})
	if !st.BatteryLow {
		t.Error("critical battery should report BatteryLow")
	}
}

func TestStickScale(t *testing.T) {
	// Full deflection must stay within int16.
	if v := int16(100) * stickScale; v != 32700 {
		t.Errorf("full stick = %d, want 32700", v)
	}
	if v := int16(-100) * stickScale; v != -32700 {
		t.Errorf("full reverse stick = %d, want -32700", v)
	}
}

func TestMock_RecordsCommandOrder(t *testing.T) {
	m := NewMock()
	m.TakeOff()
	m.SetVelocity(control.Vector{ForwardBack: 50})
	m.Land()

	got := m.Commands()
	want := []string{"takeoff", "velocity", "land"}
	if len(got) != len(want) {
		t.Fatalf("Commands = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Commands = %v, want %v", got, want)
		}
	}

	if vs := m.Vectors(); len(vs) != 1 || vs[0].ForwardBack != 50 {
		t.Errorf("Vectors = %v, want one forward command", vs)
	}
}

func TestMock_StatusTracksFlight(t *testing.T) {
	m := NewMock()
	if st := m.Status(); st.Flying || !st.OnGround {
		t.Errorf("initial status = %+v, want on ground", st)
	}
	m.TakeOff()
	if st := m.Status(); !st.Flying {
		t.Error("status should report flying after takeoff")
	}
	m.Land()
	if st := m.Status(); st.Flying || !st.OnGround {
		t.Errorf("status after land = %+v, want on ground", st)
	}
}
