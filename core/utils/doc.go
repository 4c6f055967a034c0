// Package utils provides value coercion helpers shared by the store and its adapters.
// It covers the loose typing of decoded JSON: canonical id keys, case-insensitive
// sort keys and numeric comparison across Go number kinds.
package utils
