// Package media classifies source files and names the artifacts derived from
// them.
//
// Classification is a pure lookup over a fixed, case-sensitive extension
// table: .mp3 is audio, .mp4 is video, .jpg and .png are images, and every
// other file is passed through untouched. Each kind maps to a fixed set of
// derived artifacts (primary output, poster frame, alternate rendition) whose
// destination names share the source's base name.
package media
