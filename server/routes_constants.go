package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Operator auth
	RouteAuthLogin  = "/api/auth/login"
	RouteAuthLogout = "/api/auth/logout"
	RouteAuthCheck  = "/api/auth/check"

	// Google OAuth
	RouteAuthGoogle         = "/api/auth/google"
	RouteAuthGoogleCallback = "/api/auth/google/callback"

	// ERP portal login
	RouteAuthERP = "/api/auth/muerp"

	// Calendar
	RouteCalendarSync = "/api/calendar/sync"

	// Backend proxies
	RouteEvents    = "/api/events"
	RouteEventByID = "/api/events/{id}"
	RouteTimetable = "/api/timetable"
)
