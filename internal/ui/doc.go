// Package ui holds the color themes shared by the plain CLI output and the
// interactive dashboard. Colors are disabled by --no-color or NO_COLOR.
package ui
