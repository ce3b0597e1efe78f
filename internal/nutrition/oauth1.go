package nutrition

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/fitlog-app/backend/pkg"
)

// signer produces two-legged OAuth 1.0 request signatures (HMAC-SHA1,
// empty token secret) for the nutrition API. The signature goes into the
// query string together with the oauth_* protocol params.
type signer struct {
	consumerKey    string
	consumerSecret string

	// injectable for deterministic tests
	nonceFn     func() string
	timestampFn func() int64
}

func newSigner(consumerKey, consumerSecret string) *signer {
	return &signer{
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		nonceFn: func() string {
			nonce, err := pkg.GenerateRandomString(16)
			if err != nil {
				// crypto/rand failing means the process is in deep trouble anyway
				return fmt.Sprintf("%d", time.Now().UnixNano())
			}
			return nonce
		},
		timestampFn: func() int64 {
			return time.Now().Unix()
		},
	}
}

// SignedQuery returns the full query string for a GET request to apiURL
// with the given business params, oauth protocol params and signature
// included.
func (s *signer) SignedQuery(apiURL string, params map[string]string) string {
	all := map[string]string{
		"oauth_consumer_key":     s.consumerKey,
		"oauth_nonce":            s.nonceFn(),
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        fmt.Sprintf("%d", s.timestampFn()),
		"oauth_version":          "1.0",
	}
	for k, v := range params {
		all[k] = v
	}

	paramString := normalizedParams(all)
	baseString := strings.Join([]string{
		"GET",
		percentEncode(apiURL),
		percentEncode(paramString),
	}, "&")

	// two-legged flow: no token, so the key ends with a lone '&'
	key := percentEncode(s.consumerSecret) + "&"
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(baseString))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return paramString + "&oauth_signature=" + percentEncode(signature)
}

// normalizedParams percent-encodes keys and values and joins them sorted
// by encoded key.
func normalizedParams(params map[string]string) string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "&")
}

// percentEncode implements the strict RFC 5849 variant: unreserved
// characters stay, everything else becomes %XX with uppercase hex.
// url.QueryEscape is not usable here, it turns spaces into '+'.
func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
