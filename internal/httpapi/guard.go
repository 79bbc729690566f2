package httpapi

import "strings"

// RouteDecision is the outcome of the page route guard: either the path is
// allowed for the given auth state, or the client must redirect.
type RouteDecision struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

func allow() RouteDecision {
	return RouteDecision{Allowed: true}
}

func redirect(target string) RouteDecision {
	return RouteDecision{Allowed: false, RedirectTo: target}
}

// ResolveRoute is a pure function of (path, authenticated). The login page
// bounces signed-in users to their profile, the profile requires a session,
// and the admin area funnels into the profile's admin tab. Whether the user
// actually holds an admin role is checked by the profile handlers, not here.
func ResolveRoute(path string, authenticated bool) RouteDecision {
	if strings.HasPrefix(path, "/admin") {
		if !authenticated {
			return redirect("/login")
		}
		return redirect("/profile?tab=admin")
	}

	switch path {
	case "/login":
		if authenticated {
			return redirect("/profile")
		}
		return allow()
	case "/profile":
		if !authenticated {
			return redirect("/login")
		}
		return allow()
	case "/", "/apply", "/apply/form", "/partners", "/subservers", "/impressum", "/datenschutz":
		return allow()
	default:
		// Unknown paths fall through to the client-side 404 page.
		return allow()
	}
}
