// Package voice captures spoken commands and turns them into text.
//
// Capture uses the portaudio backend and is compiled in only with the
// portaudio build tag; default builds get a stub that reports the
// capability as unavailable so the rest of the system keeps working.
// Transcription goes through the hosted Whisper endpoint. The Pipeline ties
// both together and hands transcripts to the caller, which routes them like
// any other typed assistant message.
package voice
