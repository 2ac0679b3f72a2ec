package platform

// KeyID names the keys the viewer reacts to.
type KeyID int

const (
	KeyUnknown KeyID = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyLeftShift
	KeyEscape
	KeyF2
	KeyI
	KeyL
	keyCount
)

var keyNames = [...]string{
	KeyUnknown:   "unknown",
	KeyW:         "w",
	KeyA:         "a",
	KeyS:         "s",
	KeyD:         "d",
	KeySpace:     "space",
	KeyLeftShift: "left_shift",
	KeyEscape:    "escape",
	KeyF2:        "f2",
	KeyI:         "i",
	KeyL:         "l",
}

func (k KeyID) String() string {
	if k < 0 || k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// ParseKey maps a key name as written in input scripts to its KeyID.
func ParseKey(name string) (KeyID, bool) {
	for i, n := range keyNames {
		if KeyID(i) != KeyUnknown && n == name {
			return KeyID(i), true
		}
	}
	return KeyUnknown, false
}

// KeyState cycles Up -> JustPressed -> Down -> Released -> Up. JustPressed
// and Released last for exactly one frame.
type KeyState int

const (
	KeyUp KeyState = iota
	KeyJustPressed
	KeyDown
	KeyReleased
)

func (s KeyState) String() string {
	switch s {
	case KeyJustPressed:
		return "just_pressed"
	case KeyDown:
		return "down"
	case KeyReleased:
		return "released"
	}
	return "up"
}

// Key is the per-frame state of one key.
type Key struct {
	ID    KeyID
	State KeyState
}

// IsDown reports whether the key is held this frame.
func (k Key) IsDown() bool { return k.State == KeyJustPressed || k.State == KeyDown }

// advance moves one-frame states to their steady state.
func (k *Key) advance() {
	switch k.State {
	case KeyJustPressed:
		k.State = KeyDown
	case KeyReleased:
		k.State = KeyUp
	}
}

func (k *Key) press() bool {
	if k.IsDown() {
		return false
	}
	k.State = KeyJustPressed
	return true
}

func (k *Key) release() bool {
	if !k.IsDown() {
		return false
	}
	k.State = KeyReleased
	return true
}
