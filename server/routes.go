package server

import "net/http"

func (s *Server) initRoutes() {
	// Operator auth
	s.registerAPI("POST "+RouteAuthLogin, s.LoginHandler())
	s.registerAPI("POST "+RouteAuthLogout, s.LogoutHandler())
	s.registerAPI("GET "+RouteAuthCheck, s.AuthCheckHandler())

	// Google OAuth popup flow
	s.registerAPI("GET "+RouteAuthGoogle, s.GoogleAuthURLHandler())
	s.registerAPI("GET "+RouteAuthGoogleCallback, s.GoogleCallbackHandler())

	// ERP portal login proxy
	s.registerAPI("POST "+RouteAuthERP, s.ERPLoginHandler())

	// Calendar sync
	s.registerAPI("POST "+RouteCalendarSync, s.CalendarSyncHandler())

	// Backend passthrough proxies
	s.registerAPI("GET "+RouteEvents, s.EventsListHandler())
	s.registerAPI("POST "+RouteEvents, s.EventCreateHandler())
	s.registerAPI("PUT "+RouteEventByID, s.EventUpdateHandler())
	s.registerAPI("DELETE "+RouteEventByID, s.EventDeleteHandler())
	s.registerAPI("POST "+RouteTimetable, s.TimetableUploadHandler())
	s.registerAPI("DELETE "+RouteTimetable, s.TimetableDeleteHandler())
}

func (s *Server) registerAPI(pattern string, handler http.HandlerFunc) {
	s.RegisterRouteFunc(pattern, ChainMiddleware(handler, s.APIMiddleware()...))
}
