package services

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/microcosm-cc/bluemonday"
)

var stateJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Dashboard tabs
const (
	TabClientAcquisition    = "client-acquisition"
	TabClientRelationship   = "client-relationship"
	TabMarketPositioning    = "market-positioning"
	TabStrategicInitiatives = "strategic-initiatives"
	TabMarketingCalendar    = "marketing-calendar"

	// MaxSearchTermLength bounds the header search input
	MaxSearchTermLength = 120
)

// DashboardTabs lists the tabs in display order
var DashboardTabs = []string{
	TabClientAcquisition,
	TabClientRelationship,
	TabMarketPositioning,
	TabStrategicInitiatives,
	TabMarketingCalendar,
}

// IsDashboardTab reports whether tab is a known tab id
func IsDashboardTab(tab string) bool {
	for _, t := range DashboardTabs {
		if t == tab {
			return true
		}
	}
	return false
}

// DashboardState is the UI state of one dashboard. It is a value: updates
// produce a new state through Reduce.
type DashboardState struct {
	TimeRange  TimeRange `json:"time_range"`
	SearchTerm string    `json:"search_term"`
	DarkMode   bool      `json:"dark_mode"`
	ActiveTab  string    `json:"active_tab"`
}

// DefaultDashboardState is the state of a fresh session
func DefaultDashboardState() DashboardState {
	return DashboardState{
		TimeRange: DefaultTimeRange,
		ActiveTab: TabClientAcquisition,
	}
}

// ActionType identifies a state update
type ActionType string

const (
	ActionSetTimeRange   ActionType = "set_time_range"
	ActionSetSearchTerm  ActionType = "set_search_term"
	ActionToggleDarkMode ActionType = "toggle_dark_mode"
	ActionSelectTab      ActionType = "select_tab"
)

// Action is a single update request
type Action struct {
	Type  ActionType
	Value string
}

// SetTimeRange builds a time range action
func SetTimeRange(value string) Action { return Action{Type: ActionSetTimeRange, Value: value} }

// SetSearchTerm builds a search action
func SetSearchTerm(value string) Action { return Action{Type: ActionSetSearchTerm, Value: value} }

// ToggleDarkMode builds a dark mode toggle
func ToggleDarkMode() Action { return Action{Type: ActionToggleDarkMode} }

// SelectTab builds a tab selection action
func SelectTab(tab string) Action { return Action{Type: ActionSelectTab, Value: tab} }

var searchPolicy = bluemonday.StrictPolicy()

// SanitizeSearchTerm strips markup and bounds the length of a search term.
// The result is plain text; templates escape it on output.
func SanitizeSearchTerm(term string) string {
	clean := strings.TrimSpace(html.UnescapeString(searchPolicy.Sanitize(term)))
	if r := []rune(clean); len(r) > MaxSearchTermLength {
		clean = string(r[:MaxSearchTermLength])
	}
	return clean
}

// Reduce applies an action and returns the resulting state. Invalid actions
// return the state unchanged.
func Reduce(state DashboardState, action Action) DashboardState {
	next := state
	switch action.Type {
	case ActionSetTimeRange:
		tr := TimeRange(action.Value)
		if !tr.IsValid() {
			return state
		}
		next.TimeRange = tr
	case ActionSetSearchTerm:
		next.SearchTerm = SanitizeSearchTerm(action.Value)
	case ActionToggleDarkMode:
		next.DarkMode = !state.DarkMode
	case ActionSelectTab:
		if !IsDashboardTab(action.Value) {
			return state
		}
		next.ActiveTab = action.Value
	default:
		return state
	}
	return next
}

// Normalize repairs a state decoded from an untrusted source
func (s DashboardState) Normalize() DashboardState {
	if !s.TimeRange.IsValid() {
		s.TimeRange = DefaultTimeRange
	}
	if !IsDashboardTab(s.ActiveTab) {
		s.ActiveTab = TabClientAcquisition
	}
	s.SearchTerm = SanitizeSearchTerm(s.SearchTerm)
	return s
}

// EncodeDashboardState serializes state for a cookie value
func EncodeDashboardState(s DashboardState) (string, error) {
	b, err := stateJSON.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode dashboard state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeDashboardState parses a cookie value. Garbage yields an error and
// the caller falls back to the default state.
func DecodeDashboardState(value string) (DashboardState, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return DefaultDashboardState(), fmt.Errorf("failed to decode dashboard state: %w", err)
	}
	var s DashboardState
	if err := stateJSON.Unmarshal(raw, &s); err != nil {
		return DefaultDashboardState(), fmt.Errorf("failed to decode dashboard state: %w", err)
	}
	return s.Normalize(), nil
}
