// Package ocr recognizes text inside a region of interest using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2) behind the
// session.Oracle interface. A recognition pass:
//
//  1. Rotates the capture buffer to the UI orientation
//  2. Crops the region of interest
//  3. Optionally preprocesses the crop (upscale, grayscale, contrast, invert)
//  4. Runs Tesseract at text line and word level
//  5. Reports each line with its word boxes, relative to the region and
//     using the bottom-left origin
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr
//   - macOS: brew install tesseract
//   - Windows: Download from https://github.com/UB-Mannheim/tesseract/wiki
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//
// A custom tessdata directory can be set with Config.TessdataPrefix.
//
// # Performance Considerations
//
// OCR is computationally expensive. Each region of a frame is recognized
// separately, so keep regions tight around the text they watch. Upscaling
// small crops to Config.Preprocess.MinHeight costs time but improves
// recognition of small digits considerably.
//
// # Word Offsets
//
// Tesseract reports words and lines as separate boxes. Words are assigned
// to the line whose box contains their center and then located in the
// line text in order. A word that cannot be located is dropped; the line
// itself is still reported.
package ocr
