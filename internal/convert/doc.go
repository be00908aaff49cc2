// Package convert runs the ffmpeg transcode that rewrites a clip's audio to
// uncompressed PCM while copying the video stream.
//
// Conversions are idempotent on the output path: when the converted file
// already exists the encoder is not invoked. Failed conversions never leave a
// partial output file behind.
package convert
