// Package ratelimit provides a token bucket rate limiter used to pace video
// downloads against the dictionary site. Workers call Wait before starting a
// transfer; the bucket refills in full once per period.
package ratelimit
