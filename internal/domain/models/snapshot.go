package models

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// AssetKind distinguishes the two instrument families.
type AssetKind string

const (
	KindIndex AssetKind = "index"
	KindFund  AssetKind = "fund"
)

// Snapshot is one normalized reading of an instrument.
type Snapshot interface {
	Identity() string
	DisplayName() string
	Change() float64
	Kind() AssetKind
	Validate() error
}

// IndexSnapshot is a quote for a market index.
type IndexSnapshot struct {
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	CurrentPrice  float64   `json:"current_price"`
	PreClose      float64   `json:"pre_close"`
	ChangeAmount  float64   `json:"change_amount"`
	ChangePercent float64   `json:"change"`
	FetchedAt     time.Time `json:"fetched_at"`
	QuoteDate     string    `json:"quote_date,omitempty"`
	QuoteTime     string    `json:"quote_time,omitempty"`
}

// NewIndexSnapshot derives the change figures from the current and previous close.
func NewIndexSnapshot(code, name string, current, preClose float64, fetchedAt time.Time) (IndexSnapshot, error) {
	s := IndexSnapshot{
		Code:         code,
		Name:         name,
		CurrentPrice: current,
		PreClose:     preClose,
		FetchedAt:    fetchedAt,
	}
	if err := s.Validate(); err != nil {
		return IndexSnapshot{}, err
	}
	s.ChangeAmount = Round2(current - preClose)
	s.ChangePercent = Round2((current - preClose) / preClose * 100)
	return s, nil
}

func (s IndexSnapshot) Identity() string    { return s.Code }
func (s IndexSnapshot) DisplayName() string { return s.Name }
func (s IndexSnapshot) Change() float64     { return s.ChangePercent }
func (s IndexSnapshot) Kind() AssetKind     { return KindIndex }

// Validate rejects snapshots that would divide by zero or carry non-finite values.
func (s IndexSnapshot) Validate() error {
	if s.Code == "" {
		return fmt.Errorf("%w: index code empty", ErrInvalidSnapshot)
	}
	if s.PreClose == 0 || !finite(s.PreClose) {
		return fmt.Errorf("%w: index %s reference value %v", ErrInvalidSnapshot, s.Code, s.PreClose)
	}
	if !finite(s.CurrentPrice) || !finite(s.ChangePercent) {
		return fmt.Errorf("%w: index %s non-finite price", ErrInvalidSnapshot, s.Code)
	}
	return nil
}

// FundSnapshot is an intraday estimated valuation for a fund.
// Provider strings are kept as delivered.
type FundSnapshot struct {
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	NetValue       string    `json:"net_value"`
	EstimateValue  string    `json:"estimate_value"`
	EstimateChange string    `json:"estimate_change"`
	UpdateTime     string    `json:"update_time"`
	ChangePercent  float64   `json:"change"`
	FetchedAt      time.Time `json:"fetched_at"`

	reference float64
}

// NewFundSnapshot builds a fund snapshot; reference is the parsed net value.
func NewFundSnapshot(code, name, netValue, estimateValue, estimateChange, updateTime string, reference, change float64, fetchedAt time.Time) (FundSnapshot, error) {
	s := FundSnapshot{
		Code:           code,
		Name:           name,
		NetValue:       netValue,
		EstimateValue:  estimateValue,
		EstimateChange: estimateChange,
		UpdateTime:     updateTime,
		ChangePercent:  change,
		FetchedAt:      fetchedAt,
		reference:      reference,
	}
	if err := s.Validate(); err != nil {
		return FundSnapshot{}, err
	}
	return s, nil
}

func (s FundSnapshot) Identity() string    { return s.Code }
func (s FundSnapshot) DisplayName() string { return s.Name }
func (s FundSnapshot) Change() float64     { return s.ChangePercent }
func (s FundSnapshot) Kind() AssetKind     { return KindFund }

// Validate requires a non-zero net value and a finite change.
// Snapshots decoded from a shared cache have no parsed reference, so the
// provider string is consulted instead.
func (s FundSnapshot) Validate() error {
	if s.Code == "" {
		return fmt.Errorf("%w: fund code empty", ErrInvalidSnapshot)
	}
	ref := s.reference
	if ref == 0 {
		ref = parseFloatOrZero(s.NetValue)
	}
	if ref == 0 || !finite(ref) {
		return fmt.Errorf("%w: fund %s reference value %q", ErrInvalidSnapshot, s.Code, s.NetValue)
	}
	if !finite(s.ChangePercent) {
		return fmt.Errorf("%w: fund %s non-finite change", ErrInvalidSnapshot, s.Code)
	}
	return nil
}

// IndexTarget is a configured index: display name and provider code.
type IndexTarget struct {
	Name string `json:"name" yaml:"name"`
	Code string `json:"code" yaml:"code"`
}

// Round2 rounds the exact binary value of v to two decimals, ties to even.
func Round2(v float64) float64 {
	if !finite(v) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func parseFloatOrZero(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
