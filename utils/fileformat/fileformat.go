package fileformat

import (
	"path"
	"strings"

	"github.com/twinj/uuid"
)

// UniqueFormat turns an uploaded filename into a collision-free object key
// component, preserving the original extension.
func UniqueFormat(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return uuid.NewV4().String() + ext
}
