package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/laporan-latin/laporan-latin/internal/lalin"
)

// envelope is the common reply shape of list endpoints.
type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Data    *struct {
		TotalPages  int `json:"total_pages"`
		CurrentPage int `json:"current_page"`
		Count       int `json:"count"`
		Rows        struct {
			Count int `json:"count"`
			Rows  []T `json:"rows"`
		} `json:"rows"`
	} `json:"data"`
}

func decodeEnvelope[T any](status int, body []byte) (envelope[T], error) {
	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if !env.Status {
		code := env.Code
		if code == 0 {
			code = status
		}
		return env, &APIError{Status: code, Message: env.Message}
	}
	if env.Data == nil {
		return env, fmt.Errorf("%w: missing data", ErrMalformedPayload)
	}
	return env, nil
}

// Amount is a currency value that tolerates numbers, numeric strings and
// null. Anything non-numeric, negative or beyond int64 decodes to 0 and
// fractions round half away from zero.
type Amount int64

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*a = 0
		return nil
	}
	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			*a = 0
			return nil
		}
		text = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		*a = 0
		return nil
	}
	d = d.Round(0)
	if d.Sign() < 0 || d.GreaterThan(maxAmount) {
		*a = 0
		return nil
	}
	*a = Amount(d.IntPart())
	return nil
}

// Date is a calendar day accepting YYYY-MM-DD or an RFC 3339 timestamp.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("%w: tanggal: %v", ErrMalformedPayload, err)
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(lalin.DateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("%w: tanggal %q", ErrMalformedPayload, s)
	}
	d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

type lalinRow struct {
	ID            int64  `json:"id"`
	IDCabang      int64  `json:"IdCabang"`
	IDGerbang     int64  `json:"IdGerbang"`
	Tanggal       *Date  `json:"Tanggal"`
	Shift         int    `json:"Shift"`
	IDGardu       int64  `json:"IdGardu"`
	Golongan      int    `json:"Golongan"`
	IDAsalGerbang int64  `json:"IdAsalGerbang"`
	Tunai         Amount `json:"Tunai"`
	DinasOpr      Amount `json:"DinasOpr"`
	DinasMitra    Amount `json:"DinasMitra"`
	DinasKary     Amount `json:"DinasKary"`
	EMandiri      Amount `json:"eMandiri"`
	EBri          Amount `json:"eBri"`
	EBni          Amount `json:"eBni"`
	EBca          Amount `json:"eBca"`
	ENobu         Amount `json:"eNobu"`
	EDKI          Amount `json:"eDKI"`
	EMega         Amount `json:"eMega"`
	EFlo          Amount `json:"eFlo"`
}

func (r lalinRow) record() (lalin.TransactionRecord, error) {
	if r.Tanggal == nil || r.Tanggal.IsZero() {
		return lalin.TransactionRecord{}, fmt.Errorf("%w: record %d has no tanggal", ErrMalformedPayload, r.ID)
	}
	return lalin.TransactionRecord{
		ID:           r.ID,
		BranchID:     r.IDCabang,
		GateID:       r.IDGerbang,
		LaneID:       r.IDGardu,
		OriginGateID: r.IDAsalGerbang,
		Date:         r.Tanggal.Time,
		Shift:        r.Shift,
		Class:        r.Golongan,
		Cash:         int64(r.Tunai),
		EMandiri:     int64(r.EMandiri),
		EBri:         int64(r.EBri),
		EBni:         int64(r.EBni),
		EBca:         int64(r.EBca),
		ENobu:        int64(r.ENobu),
		EDKI:         int64(r.EDKI),
		EMega:        int64(r.EMega),
		DinasOpr:     int64(r.DinasOpr),
		DinasMitra:   int64(r.DinasMitra),
		DinasKary:    int64(r.DinasKary),
		EFlo:         int64(r.EFlo),
	}, nil
}

// DecodeLalinPage converts a /lalins reply body into a page of records.
// It also accepts a bare JSON array of rows, which the CLI reads from files.
func DecodeLalinPage(body []byte) (lalin.Page, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []lalinRow
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return lalin.Page{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		records, err := toRecords(rows)
		if err != nil {
			return lalin.Page{}, err
		}
		return lalin.Page{Records: records, TotalPages: 1, CurrentPage: 1, Count: len(records)}, nil
	}
	env, err := decodeEnvelope[lalinRow](0, trimmed)
	if err != nil {
		return lalin.Page{}, err
	}
	return pageFromEnvelope(env)
}

func pageFromEnvelope(env envelope[lalinRow]) (lalin.Page, error) {
	records, err := toRecords(env.Data.Rows.Rows)
	if err != nil {
		return lalin.Page{}, err
	}
	return lalin.Page{
		Records:     records,
		TotalPages:  env.Data.TotalPages,
		CurrentPage: env.Data.CurrentPage,
		Count:       env.Data.Count,
	}, nil
}

func toRecords(rows []lalinRow) ([]lalin.TransactionRecord, error) {
	records := make([]lalin.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
