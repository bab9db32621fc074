package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// nonceSource issues millisecond-timestamp nonces. Values are strictly
// increasing within a process: a reading that lands in the same
// millisecond as the previous nonce is bumped to last+1.
type nonceSource struct {
	now func() time.Time

	mu   sync.Mutex
	last int64
}

func newNonceSource(now func() time.Time) *nonceSource {
	if now == nil {
		now = time.Now
	}
	return &nonceSource{now: now}
}

// next returns the next nonce as a decimal string.
func (n *nonceSource) next() string {
	ms := roundMillis(n.now())

	n.mu.Lock()
	if ms <= n.last {
		ms = n.last + 1
	}
	n.last = ms
	n.mu.Unlock()

	return strconv.FormatInt(ms, 10)
}

// roundMillis converts t to milliseconds since the epoch, rounded to the
// nearest millisecond.
func roundMillis(t time.Time) int64 {
	ns := t.UnixNano()
	ms := ns / int64(time.Millisecond)
	if ns%int64(time.Millisecond) >= int64(time.Millisecond)/2 {
		ms++
	}
	return ms
}

// Sign computes the Rest-Sign header value for payload:
// base64(HMAC-SHA512(base64decode(secret), payload)).
func Sign(secret, payload string) (string, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	mac := hmac.New(sha512.New, key)
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// signedPayload is the outcome of signing one request.
type signedPayload struct {
	body      string
	signature string
	nonce     string
}

// sign appends a fresh nonce to a copy of params, encodes it and signs the
// encoded bytes. The returned body must be sent verbatim.
func (c *Client) sign(params *Params) (*signedPayload, error) {
	p := params.Clone()
	nonce := c.nonces.next()
	p.Set("nonce", nonce)

	body := p.Encode()
	sig, err := Sign(c.creds.Secret, body)
	if err != nil {
		return nil, err
	}
	return &signedPayload{body: body, signature: sig, nonce: nonce}, nil
}
