// Package storage is the pluggable key-value layer under the local
// completion history. Pebble is used on disk and the memory backend in
// tests.
//
// Every backend lists entries in ascending key order.
package storage
