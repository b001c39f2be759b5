package ical

import (
	"net/http"

	"git.sr.ht/~mariusor/schedule/storage"
)

func Routes(repo storage.Loader, c Config) http.Handler {
	h := newHandler(repo, c)

	r := http.NewServeMux()
	r.HandleFunc("/schedule.ics", h.ServeICal)
	r.HandleFunc("/schedule.json", h.ServeJSON)
	r.HandleFunc("/", h.ServeAgenda)
	return r
}
