// Package process kills browser process trees left behind by the previewer.
package process
