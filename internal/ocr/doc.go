// Package ocr turns a preprocessed region image into text fragments using
// Tesseract (via gosseract/v2).
//
// # Prerequisites
//
// Tesseract and the language data for the configured language must be
// installed. The reference dataset is Simplified Chinese, so the default
// language is "chi_sim":
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-chi-sim
//   - macOS: brew install tesseract tesseract-lang
//   - Windows: https://github.com/UB-Mannheim/tesseract/wiki
//
// A non-standard data directory can be supplied through Options.TessdataPrefix.
//
// # Concurrency
//
// A gosseract client holds native state and must not be shared between
// goroutines. Each analyzer worker creates its own Tesseract through a Factory
// and closes it when the pool shuts down.
//
// Builds without cgo get a Tesseract that always fails, so the rest of the
// program can be built and tested without the native library.
package ocr
