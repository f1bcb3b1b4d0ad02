// Package dictionary talks to the sign-language dictionary site over plain
// HTTP: building video URLs, normalizing relative references and streaming
// video downloads.
//
// The site's certificate is expired, so the download client disables TLS
// verification. That trust exception lives entirely inside this package.
package dictionary
