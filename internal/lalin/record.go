package lalin

import "time"

// TransactionRecord is one traffic-counter row: a vehicle class on a lane
// for a shift of a day, split across disjoint payment channels.
type TransactionRecord struct {
	ID           int64     `json:"id"`
	BranchID     int64     `json:"branch_id"`
	GateID       int64     `json:"gate_id"`
	LaneID       int64     `json:"lane_id"`
	OriginGateID int64     `json:"origin_gate_id"`
	Date         time.Time `json:"date"`
	Shift        int       `json:"shift"`
	Class        int       `json:"class"`

	Cash int64 `json:"cash"`

	EMandiri int64 `json:"e_mandiri"`
	EBri     int64 `json:"e_bri"`
	EBni     int64 `json:"e_bni"`
	EBca     int64 `json:"e_bca"`
	ENobu    int64 `json:"e_nobu"`
	EDKI     int64 `json:"e_dki"`
	EMega    int64 `json:"e_mega"`

	DinasOpr   int64 `json:"dinas_opr"`
	DinasMitra int64 `json:"dinas_mitra"`
	DinasKary  int64 `json:"dinas_kary"`

	EFlo int64 `json:"e_flo"`
}

// ElectronicToll sums the bank-issued e-toll channels. Flo is not included.
func (r TransactionRecord) ElectronicToll() int64 {
	return r.EMandiri + r.EBri + r.EBni + r.EBca + r.ENobu + r.EDKI + r.EMega
}

// FleetExempt sums the Dinas channels reported as KTP.
func (r TransactionRecord) FleetExempt() int64 {
	return r.DinasOpr + r.DinasMitra + r.DinasKary
}

// Charged is the paid traffic: cash, e-toll and Flo.
func (r TransactionRecord) Charged() int64 {
	return r.Cash + r.ElectronicToll() + r.EFlo
}

// AllChannels sums every payment channel of the record.
func (r TransactionRecord) AllChannels() int64 {
	return r.Charged() + r.FleetExempt()
}
