package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Currency identifies the currency an hourly rate is charged in.
type Currency string

const (
	CurrencyARS Currency = "ARS"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// HourlyRates maps a currency to the hourly price charged in it. Persisted as JSONB.
type HourlyRates map[Currency]decimal.Decimal

// Value implements driver.Valuer.
func (h HourlyRates) Value() (driver.Value, error) {
	if h == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("marshal hourly rates: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (h *HourlyRates) Scan(src interface{}) error {
	return scanJSON(src, h)
}

// Modality describes how lessons are delivered.
type Modality string

const (
	ModalityRemote     Modality = "REMOTE"
	ModalityFaceToFace Modality = "FACE_TO_FACE"
)

// Modalities is the set of delivery modes a teacher offers. Persisted as TEXT[].
type Modalities []Modality

// Value implements driver.Valuer.
func (m Modalities) Value() (driver.Value, error) {
	arr := make(pq.StringArray, len(m))
	for i, mod := range m {
		arr[i] = string(mod)
	}
	return arr.Value()
}

// Scan implements sql.Scanner.
func (m *Modalities) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return fmt.Errorf("scan modalities: %w", err)
	}
	out := make(Modalities, len(arr))
	for i, mod := range arr {
		out[i] = Modality(mod)
	}
	*m = out
	return nil
}

func scanJSON(src interface{}, dest interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported json source type %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
