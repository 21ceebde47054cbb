package apiclient

import (
	"context"
	"net/http"
	"sync"
)

type credentialsKey struct{}

// Credentials carries the browser's cookies to the backend and collects the
// cookies the backend sets in return. One value lives for one inbound request.
type Credentials struct {
	mu       sync.Mutex
	cookies  map[string]*http.Cookie
	order    []string
	received []*http.Cookie
}

// NewCredentials seeds the carrier with the cookies of an inbound request.
func NewCredentials(cookies []*http.Cookie) *Credentials {
	c := &Credentials{cookies: make(map[string]*http.Cookie)}
	for _, ck := range cookies {
		c.set(ck)
	}
	return c
}

func (c *Credentials) set(ck *http.Cookie) {
	if _, ok := c.cookies[ck.Name]; !ok {
		c.order = append(c.order, ck.Name)
	}
	c.cookies[ck.Name] = &http.Cookie{Name: ck.Name, Value: ck.Value}
}

func (c *Credentials) remove(name string) {
	if _, ok := c.cookies[name]; !ok {
		return
	}
	delete(c.cookies, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Cookie returns the current value of the named cookie.
func (c *Credentials) Cookie(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ck, ok := c.cookies[name]
	if !ok {
		return "", false
	}
	return ck.Value, true
}

// apply adds the current cookies to an outgoing request.
func (c *Credentials) apply(req *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range c.order {
		if ck, ok := c.cookies[name]; ok {
			req.AddCookie(ck)
		}
	}
}

// absorb records the cookies set by a backend response. Expired cookies are
// removed from the outgoing set but still relayed so the browser drops them.
func (c *Credentials) absorb(resp *http.Response) {
	set := resp.Cookies()
	if len(set) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ck := range set {
		c.received = append(c.received, ck)
		if ck.MaxAge < 0 {
			c.remove(ck.Name)
			continue
		}
		c.set(ck)
	}
}

// ResponseCookies returns every cookie the backend set, in arrival order.
func (c *Credentials) ResponseCookies() []*http.Cookie {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*http.Cookie, len(c.received))
	copy(out, c.received)
	return out
}

// WithCredentials attaches creds to ctx for every client call made with it.
func WithCredentials(ctx context.Context, creds *Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// CredentialsFrom returns the carrier attached to ctx, if any.
func CredentialsFrom(ctx context.Context) *Credentials {
	creds, _ := ctx.Value(credentialsKey{}).(*Credentials)
	return creds
}
