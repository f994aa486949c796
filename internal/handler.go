package internal

// Handler declares routes on a router.
//
// Example:
//
//	type AccountHandler struct {
//	    accounts *account.Service
//	}
//
//	func (h *AccountHandler) Routes(r bulwark.Router) {
//	    r.GET("/account", h.show)
//	    r.POST("/account", h.update)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands the request to the translation middleware
// chain and, ultimately, the terminal exception handler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect or modify the request, short-circuit processing,
// or translate errors returned by inner handlers.
//
// Example:
//
//	func Auth(next bulwark.HandlerFunc) bulwark.HandlerFunc {
//	    return func(c bulwark.Context) error {
//	        if !isAuthenticated(c) {
//	            return c.Redirect(302, "/login")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers after the middleware
// chain is done with them.
type ErrorHandler func(Context, error) error
