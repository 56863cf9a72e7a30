// Package engines contains the synthesis backends.
// It supports gTTS (online, MP3) and eSpeak NG (offline, WAV).
// Each engine implements the Engine interface from the ttypes package.
package engines
