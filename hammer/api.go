package hammer

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/corneldamian/httpway"
	"github.com/gorilla/handlers"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ipchama/dhcpopt/config"
	"github.com/ipchama/dhcpopt/handler"
	"github.com/ipchama/dhcpopt/option"
)

type decodeRequest struct {
	Hex string `json:"hex"`
}

type decodeResponse struct {
	Options []option.Entry `json:"options"`
}

type encodeRequest struct {
	Options []config.OptionEntry `json:"options"`
	End     bool                 `json:"end"`
}

type encodeResponse struct {
	Hex string `json:"hex"`
}

type replyView struct {
	Received  time.Time      `json:"received"`
	Server    string         `json:"server"`
	Xid       uint32         `json:"xid"`
	ClientMAC string         `json:"client_mac"`
	YourIP    string         `json:"your_ip"`
	Type      string         `json:"type"`
	Options   []option.Entry `json:"options"`
}

func entries(opts []option.Option) []option.Entry {
	out := make([]option.Entry, len(opts))
	for i, o := range opts {
		out[i] = option.EntryOf(o)
	}
	return out
}

func writeJSON(response http.ResponseWriter, v interface{}) {
	response.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(response).Encode(v); err != nil {
		http.Error(response, err.Error(), http.StatusInternalServerError)
	}
}

func readJSON(request *http.Request, v interface{}) error {
	body, err := io.ReadAll(request.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (h *Hammer) statsHandler(response http.ResponseWriter, request *http.Request, ps httprouter.Params) {
	response.Header().Set("Content-Type", "application/json")
	fmt.Fprint(response, h.stats.String())
}

func (h *Hammer) updateHandler(response http.ResponseWriter, request *http.Request, ps httprouter.Params) {

	var details map[string]interface{}

	if err := readJSON(request, &details); err != nil {
		h.addError(err)
		http.Error(response, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.generator.Update(details); err != nil {
		h.addError(err)
		http.Error(response, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(response, map[string]string{"status": "ok"})
}

func (h *Hammer) optionsHandler(response http.ResponseWriter, request *http.Request, ps httprouter.Params) {
	views := []replyView{}

	if r, ok := h.handler.(handler.ReplyReporter); ok {
		for _, reply := range r.LastReplies() {
			views = append(views, replyView{
				Received:  reply.Received,
				Server:    reply.Server.String(),
				Xid:       reply.Xid,
				ClientMAC: reply.ClientMAC.String(),
				YourIP:    reply.YourIP.String(),
				Type:      reply.Type.String(),
				Options:   entries(reply.Options),
			})
		}
	}

	writeJSON(response, views)
}

// decodeHandler decodes a hex options area, as found after the magic
// cookie of a DHCP message.
func (h *Hammer) decodeHandler(response http.ResponseWriter, request *http.Request, ps httprouter.Params) {

	var req decodeRequest

	if err := readJSON(request, &req); err != nil {
		http.Error(response, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := hex.DecodeString(strings.ReplaceAll(strings.TrimSpace(req.Hex), ":", ""))
	if err != nil {
		http.Error(response, err.Error(), http.StatusBadRequest)
		return
	}

	opts, err := option.DecodeAll(data)
	if err != nil {
		http.Error(response, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(response, decodeResponse{Options: entries(opts)})
}

func (h *Hammer) encodeHandler(response http.ResponseWriter, request *http.Request, ps httprouter.Params) {

	var req encodeRequest

	if err := readJSON(request, &req); err != nil {
		http.Error(response, err.Error(), http.StatusBadRequest)
		return
	}

	set := config.OptionSet{Options: req.Options}

	opts, err := set.Resolve()
	if err != nil {
		http.Error(response, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if req.End {
		opts = append(opts, option.End{})
	}

	writeJSON(response, encodeResponse{Hex: hex.EncodeToString(option.EncodeAll(opts...))})
}

func (h *Hammer) router() http.Handler {
	r := httprouter.New()

	r.GET("/stats", h.statsHandler)
	r.PUT("/update", h.updateHandler)
	r.GET("/options", h.optionsHandler)
	r.POST("/decode", h.decodeHandler)
	r.POST("/encode", h.encodeHandler)
	r.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))

	return r
}

// newApiServer runs before any goroutine exists, so Run and stop only ever
// read h.apiServer.
func (h *Hammer) newApiServer() {
	h.apiServer = httpway.NewServer(nil)
	h.apiServer.Handler = handlers.LoggingHandler(os.Stdout, h.router())
	h.apiServer.Addr = h.apiAddress
}

// startApiServer blocks until stopApiServer is called. It returns at once if
// the stop came first.
func (h *Hammer) startApiServer() {
	h.apiLock.Lock()

	if h.apiStopped {
		h.apiLock.Unlock()
		return
	}

	if err := h.apiServer.Start(); err != nil {
		h.apiStopped = true
		h.apiLock.Unlock()
		h.addError(err)
		return
	}

	h.apiLock.Unlock()

	if err := h.apiServer.WaitStop(2 * time.Second); err != nil {
		h.addError(err)
	}
}

func (h *Hammer) stopApiServer() error {
	h.apiLock.Lock()
	defer h.apiLock.Unlock()

	if h.apiServer == nil || h.apiStopped {
		h.apiStopped = true
		return nil
	}

	h.apiStopped = true

	if !h.apiServer.IsStarted() {
		return nil
	}

	return h.apiServer.Stop()
}
