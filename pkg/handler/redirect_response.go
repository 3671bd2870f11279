package handler

import "net/http"

// redirect implements Response. OAuth connect and callback use it to hand the
// browser over to Google and back to the frontend.
type redirect struct {
	location string
	status   int
}

func (rd redirect) Render(w http.ResponseWriter, r *http.Request) error {
	http.Redirect(w, r, rd.location, rd.status)
	return nil
}

// Redirect answers 302 Found.
func Redirect(location string) Response {
	return RedirectWithCode(location, http.StatusFound)
}

func RedirectWithCode(location string, status int) Response {
	return redirect{location: location, status: status}
}
