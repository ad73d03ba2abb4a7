// Package utils provides loose type conversion for values decoded from JSON,
// where the same field may arrive as a number, a numeric string or null.
package utils
