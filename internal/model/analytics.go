package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day representation used for daily buckets.
const DateLayout = "2006-01-02"

// TargetType identifies the kind of entity a daily bucket belongs to.
type TargetType string

const (
	TargetStore  TargetType = "Store"
	TargetCoupon TargetType = "Coupon"
)

// Valid reports whether t is a trackable entity type.
func (t TargetType) Valid() bool {
	return t == TargetStore || t == TargetCoupon
}

// ActionType is the kind of tracked interaction.
type ActionType string

const (
	ActionView   ActionType = "view"
	ActionAction ActionType = "action"
)

// Valid reports whether a is a known tracking action.
func (a ActionType) Valid() bool {
	return a == ActionView || a == ActionAction
}

// DailyStat is one counters row per entity per UTC day.
type DailyStat struct {
	TargetID   string     `json:"targetId"`
	TargetType TargetType `json:"targetType"`
	Date       string     `json:"date"`
	Views      int64      `json:"views"`
	Actions    int64      `json:"actions"`
}

// DayOf returns the UTC calendar day of t in DateLayout form.
func DayOf(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// TrackRequest is the DTO for POST /api/analytics/track
type TrackRequest struct {
	ID     string     `json:"id" validate:"required,uuid"`
	Type   TargetType `json:"type" validate:"required,targettype"`
	Action ActionType `json:"action" validate:"required,trackaction"`
}

// Event converts the request into a tracking event.
func (r TrackRequest) Event() TrackEvent {
	return TrackEvent{TargetID: r.ID, TargetType: r.Type, Action: r.Action}
}

// TrackEvent is a single view or action against an entity.
type TrackEvent struct {
	TargetID   string
	TargetType TargetType
	Action     ActionType
}

// Increments returns the (views, actions) deltas this event applies to its bucket.
func (e TrackEvent) Increments() (views, actions int64) {
	if e.Action == ActionAction {
		return 0, 1
	}
	return 1, 0
}

// CountsAsCouponUse reports whether the event also bumps the coupon's lifetime usage.
func (e TrackEvent) CountsAsCouponUse() bool {
	return e.Action == ActionAction && e.TargetType == TargetCoupon
}

// ChartPoint is the per-day rollup across all entities.
type ChartPoint struct {
	Date         string `json:"date"`
	TotalViews   int64  `json:"totalViews"`
	TotalActions int64  `json:"totalActions"`
}

// KPI holds the dashboard headline numbers.
type KPI struct {
	Stores       int64 `json:"stores"`
	Coupons      int64 `json:"coupons"`
	Users        int64 `json:"users"`
	TotalActions int64 `json:"totalActions"`
}

// DashboardSummary is the response payload for the dashboard report.
type DashboardSummary struct {
	KPI   KPI          `json:"kpi"`
	Chart []ChartPoint `json:"chart"`
}

// RankedTarget is an entity id with its summed actions.
type RankedTarget struct {
	TargetID     string
	TotalActions int64
}

// TopEntity is one enriched row of a top-N report.
type TopEntity struct {
	ID           string  `json:"id"`
	Code         *string `json:"code"`
	TotalActions int64   `json:"totalActions"`
	StoreIcon    *string `json:"storeIcon"`
	StoreName    string  `json:"storeName"`
}

// AllTimeLabel is the filter label used when no month filter applies.
const AllTimeLabel = "all-time"

// MonthFilter restricts a ranking to one calendar month.
type MonthFilter struct {
	Year  int
	Month int
}

// NewMonthFilter returns a filter only when both year and month are supplied.
// A zero value for either means "not supplied".
func NewMonthFilter(year, month int) *MonthFilter {
	if year == 0 || month == 0 {
		return nil
	}
	return &MonthFilter{Year: year, Month: month}
}

// Label returns the "YYYY-MM" form of the filter.
func (f MonthFilter) Label() string {
	return fmt.Sprintf("%04d-%02d", f.Year, f.Month)
}

// Range returns the half-open [first day, first day of next month) bounds.
func (f MonthFilter) Range() (from, to string) {
	start := time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.UTC)
	return start.Format(DateLayout), start.AddDate(0, 1, 0).Format(DateLayout)
}

// TopQuery holds the parameters of a top-N ranking.
type TopQuery struct {
	TargetType TargetType
	Limit      int
	Language   Language
	Period     *MonthFilter
}

// TopResult is a ranking plus the label of the period it covers.
type TopResult struct {
	Filter   string
	Entities []TopEntity
}
