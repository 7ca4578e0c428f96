package controller

import "github.com/gdamore/tcell/v2"

// Rune keys are mapped onto tcell.Key values above tcell's own range so that plain letters can be
// used in the same event maps as special keys.
const (
	KeyA tcell.Key = iota + 1000
	KeyC
	KeyD
	KeyE
	KeyK
	KeyM
	KeyN
	KeyQ
	KeyU
	KeySpace
	KeyShiftA
	KeyShiftK
	KeyShiftL
	KeyShiftR
	KeyShiftX
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

var runeKeys = map[rune]tcell.Key{
	'a': KeyA,
	'c': KeyC,
	'd': KeyD,
	'e': KeyE,
	'k': KeyK,
	'm': KeyM,
	'n': KeyN,
	'q': KeyQ,
	'u': KeyU,
	' ': KeySpace,
	'A': KeyShiftA,
	'K': KeyShiftK,
	'L': KeyShiftL,
	'R': KeyShiftR,
	'X': KeyShiftX,
	'0': Key0,
	'1': Key1,
	'2': Key2,
	'3': Key3,
	'4': Key4,
	'5': Key5,
	'6': Key6,
	'7': Key7,
	'8': Key8,
	'9': Key9,
}

// initKeys registers display names for the rune keys so headers can list them.
func initKeys() {
	for r, key := range runeKeys {
		name := string(r)
		if r == ' ' {
			name = "Space"
		}

		tcell.KeyNames[key] = name
	}
}

// AsKey returns the key an event maps to: the special key itself, or the mapped rune key.
func AsKey(evt *tcell.EventKey) tcell.Key {
	if evt.Key() != tcell.KeyRune {
		return evt.Key()
	}

	if key, ok := runeKeys[evt.Rune()]; ok {
		return key
	}

	return tcell.KeyRune
}

// digit returns the number a digit key stands for.
func digit(key tcell.Key) (int, bool) {
	if key < Key0 || key > Key9 {
		return 0, false
	}

	return int(key - Key0), true
}
