package mock

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-routeros/routeros/v3"
	"github.com/go-routeros/routeros/v3/proto"
)

// routerPaths are the API menus the simulated device answers on.
// Anything else traps, like a real device would.
var routerPaths = map[string]bool{
	"/ppp/secret":                    true,
	"/ppp/profile":                   true,
	"/ppp/active":                    true,
	"/queue/simple":                  true,
	"/ip/firewall/address-list":      true,
	"/ip/dhcp-server":                true,
	"/ip/dhcp-server/lease":          true,
	"/ip/address":                    true,
	"/interface":                     true,
	"/interface/pppoe-server/server": true,
	"/system/identity":               true,
	"/system/resource":               true,
}

// Router simulates a RouterOS device behind the binary API. It
// implements the same RunArgs/Close surface as a live API connection,
// so client code runs against it unchanged: rows per menu path,
// `?key=value` print filtering, `.id` assignment and `ret` on add,
// traps on unknown commands and missing items.
type Router struct {
	mu      sync.Mutex
	tables  map[string][]map[string]string
	nextID  int
	history []string
	traps   map[string]string
	closes  int
}

// NewRouter creates a simulated device with identity and resource
// tables pre-seeded and every provisioning menu empty.
func NewRouter() *Router {
	r := &Router{
		tables: make(map[string][]map[string]string),
		nextID: 1,
		traps:  make(map[string]string),
	}
	r.tables["/system/identity"] = []map[string]string{
		{"name": "MikroTik"},
	}
	r.tables["/system/resource"] = []map[string]string{{
		"version":      "7.14.2 (stable)",
		"board-name":   "CCR2004-16G-2S+",
		"uptime":       "2w3d7h10m44s",
		"cpu-load":     "4",
		"free-memory":  "3837788160",
		"total-memory": "4294967296",
	}}
	return r
}

// RunArgs executes one API sentence against the in-memory state.
func (r *Router) RunArgs(sentence []string) (*routeros.Reply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(sentence) == 0 {
		return nil, fmt.Errorf("api: empty sentence")
	}

	r.history = append(r.history, strings.Join(sentence, " "))

	word := sentence[0]
	if msg, ok := r.traps[word]; ok {
		return nil, trapError(msg)
	}

	idx := strings.LastIndex(word, "/")
	if idx <= 0 {
		return nil, trapError(fmt.Sprintf("no such command: %s", word))
	}
	path, action := word[:idx], word[idx+1:]
	if !routerPaths[path] {
		return nil, trapError(fmt.Sprintf("no such command prefix: %s", path))
	}

	args, queries := splitWords(sentence[1:])

	switch action {
	case "print":
		return r.print(path, queries), nil
	case "add":
		return r.add(path, args), nil
	case "set":
		return r.update(path, args)
	case "enable":
		return r.update(path, withDisabled(args, "no"))
	case "disable":
		return r.update(path, withDisabled(args, "yes"))
	case "remove":
		return r.remove(path, args)
	default:
		return nil, trapError(fmt.Sprintf("no such command: %s", action))
	}
}

// Close records a session release. The device state survives: closing
// an API session does not reset a router, and tests hand the same
// device to many short-lived sessions.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closes++
	return nil
}

// Closes reports how many sessions have been released against this
// device, for asserting session hygiene.
func (r *Router) Closes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closes
}

func (r *Router) print(path string, queries map[string]string) *routeros.Reply {
	var re []*proto.Sentence
	for _, row := range r.tables[path] {
		if !matches(row, queries) {
			continue
		}
		re = append(re, rowSentence(row))
	}
	return &routeros.Reply{
		Re:   re,
		Done: &proto.Sentence{Word: "!done", Map: map[string]string{}},
	}
}

func (r *Router) add(path string, args map[string]string) *routeros.Reply {
	row := make(map[string]string, len(args)+1)
	for k, v := range args {
		if k == ".proplist" {
			continue
		}
		row[k] = v
	}
	id := fmt.Sprintf("*%X", r.nextID)
	r.nextID++
	row[".id"] = id
	r.tables[path] = append(r.tables[path], row)
	return &routeros.Reply{
		Done: &proto.Sentence{Word: "!done", Map: map[string]string{"ret": id}},
	}
}

func (r *Router) update(path string, args map[string]string) (*routeros.Reply, error) {
	id := args[".id"]
	if id == "" {
		return nil, trapError("no id specified")
	}
	for _, row := range r.tables[path] {
		if row[".id"] != id {
			continue
		}
		for k, v := range args {
			if k == ".id" || k == ".proplist" {
				continue
			}
			row[k] = v
		}
		return doneReply(), nil
	}
	return nil, trapError("no such item")
}

func (r *Router) remove(path string, args map[string]string) (*routeros.Reply, error) {
	id := args[".id"]
	if id == "" {
		return nil, trapError("no id specified")
	}
	rows := r.tables[path]
	for i, row := range rows {
		if row[".id"] != id {
			continue
		}
		r.tables[path] = append(rows[:i:i], rows[i+1:]...)
		return doneReply(), nil
	}
	return nil, trapError("no such item")
}

// Rows returns a copy of the rows stored under a menu path.
func (r *Router) Rows(path string) []map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]map[string]string, 0, len(r.tables[path]))
	for _, row := range r.tables[path] {
		cp := make(map[string]string, len(row))
		for k, v := range row {
			cp[k] = v
		}
		rows = append(rows, cp)
	}
	return rows
}

// AddRow seeds a row directly, bypassing the API, and returns the
// assigned id. Useful for starting a test from existing device state.
func (r *Router) AddRow(path string, row map[string]string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[string]string, len(row)+1)
	for k, v := range row {
		cp[k] = v
	}
	id := fmt.Sprintf("*%X", r.nextID)
	r.nextID++
	cp[".id"] = id
	r.tables[path] = append(r.tables[path], cp)
	return id
}

// TrapOn makes every sentence with the given command word trap with
// the message, simulating device-side refusals.
func (r *Router) TrapOn(word, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.traps[word] = message
}

// SetIdentity changes the device identity returned by
// /system/identity/print.
func (r *Router) SetIdentity(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables["/system/identity"] = []map[string]string{{"name": name}}
}

// Sentences returns every API sentence received, in order.
func (r *Router) Sentences() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	history := make([]string, len(r.history))
	copy(history, r.history)
	return history
}

func splitWords(words []string) (args, queries map[string]string) {
	args = make(map[string]string)
	queries = make(map[string]string)
	for _, w := range words {
		switch {
		case strings.HasPrefix(w, "="):
			k, v, _ := strings.Cut(w[1:], "=")
			args[k] = v
		case strings.HasPrefix(w, "?"):
			q := strings.TrimPrefix(w[1:], "=")
			k, v, _ := strings.Cut(q, "=")
			queries[k] = v
		}
	}
	return args, queries
}

func matches(row, queries map[string]string) bool {
	for k, v := range queries {
		if row[k] != v {
			return false
		}
	}
	return true
}

func withDisabled(args map[string]string, value string) map[string]string {
	out := make(map[string]string, len(args)+1)
	for k, v := range args {
		out[k] = v
	}
	out["disabled"] = value
	return out
}

func rowSentence(row map[string]string) *proto.Sentence {
	m := make(map[string]string, len(row))
	list := make([]proto.Pair, 0, len(row))
	for k, v := range row {
		m[k] = v
		list = append(list, proto.Pair{Key: k, Value: v})
	}
	return &proto.Sentence{Word: "!re", Map: m, List: list}
}

func doneReply() *routeros.Reply {
	return &routeros.Reply{
		Done: &proto.Sentence{Word: "!done", Map: map[string]string{}},
	}
}

func trapError(message string) error {
	return fmt.Errorf("from RouterOS device: %s", message)
}
