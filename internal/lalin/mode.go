package lalin

import (
	"fmt"
	"strings"
)

// PaymentMode selects which payment channels a report aggregates.
type PaymentMode int

const (
	ModeCash PaymentMode = iota
	ModeElectronicToll
	ModeFlo
	ModeFleetExempt
	ModeElectronicTollCashFlo
	ModeTotal
)

type modeSpec struct {
	key        string
	label      string
	value      func(TransactionRecord) int64
	skipOnZero bool
}

// Cash, E-Toll, Flo and KTP drop zero-valued records; the combined modes keep them.
var modeTable = [...]modeSpec{
	ModeCash: {
		key:        "tunai",
		label:      "Tunai",
		value:      func(r TransactionRecord) int64 { return r.Cash },
		skipOnZero: true,
	},
	ModeElectronicToll: {
		key:        "etoll",
		label:      "E-Toll",
		value:      TransactionRecord.ElectronicToll,
		skipOnZero: true,
	},
	ModeFlo: {
		key:        "flo",
		label:      "Flo",
		value:      func(r TransactionRecord) int64 { return r.EFlo },
		skipOnZero: true,
	},
	ModeFleetExempt: {
		key:        "ktp",
		label:      "KTP",
		value:      TransactionRecord.FleetExempt,
		skipOnZero: true,
	},
	ModeElectronicTollCashFlo: {
		key:   "etoll-tunai-flo",
		label: "E-Toll+Tunai+Flo",
		value: TransactionRecord.Charged,
	},
	ModeTotal: {
		key:   "total",
		label: "Keseluruhan",
		value: TransactionRecord.AllChannels,
	},
}

// Modes lists every payment mode in tab order.
func Modes() []PaymentMode {
	return []PaymentMode{ModeCash, ModeElectronicToll, ModeFlo, ModeFleetExempt, ModeElectronicTollCashFlo, ModeTotal}
}

// ParseMode resolves a mode key such as "tunai" or "etoll-tunai-flo".
func ParseMode(key string) (PaymentMode, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for i, spec := range modeTable {
		if spec.key == key {
			return PaymentMode(i), nil
		}
	}
	return 0, fmt.Errorf("lalin: unknown payment mode %q", key)
}

// Valid reports whether m is one of the enumerated modes.
func (m PaymentMode) Valid() bool {
	return m >= 0 && int(m) < len(modeTable)
}

// Key returns the URL/CLI key of the mode.
func (m PaymentMode) Key() string {
	if !m.Valid() {
		return ""
	}
	return modeTable[m].key
}

// Label returns the method label written into report rows.
func (m PaymentMode) Label() string {
	if !m.Valid() {
		return ""
	}
	return modeTable[m].label
}

// SkipsZero reports whether records valued at zero are left out.
func (m PaymentMode) SkipsZero() bool {
	return m.Valid() && modeTable[m].skipOnZero
}

// Value selects the amount a record contributes under the mode.
func (m PaymentMode) Value(r TransactionRecord) int64 {
	if !m.Valid() {
		return 0
	}
	return modeTable[m].value(r)
}

func (m PaymentMode) String() string {
	return m.Key()
}

// MarshalText implements encoding.TextMarshaler.
func (m PaymentMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("lalin: invalid payment mode %d", int(m))
	}
	return []byte(m.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *PaymentMode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
