// Package synth generates batches of labeled text images.
//
// A Generator owns an immutable alphabet and a random source. Each call to
// Generate runs one batch described by a Request:
//
//  1. the request is validated and the font is loaded, before any file is
//     touched;
//  2. the output directory is created if missing;
//  3. for each of Count images, strictly one after another: a random string
//     is sampled, the largest fitting font size is found, the string is
//     rendered centered on a fresh canvas, and the canvas is written to disk.
//
// Nothing is kept in memory between images except the cached font faces and
// the Report entries describing what was written.
//
// # File Names
//
// FilenameNumbered produces text_image_1.<format>, text_image_2.<format>, ...
// FilenameText derives the name from the sampled string, replacing every rune
// that is neither a Unicode letter nor a number with "_". Two samples mapping
// to the same name overwrite each other; re-running a batch into the same
// directory overwrites the previous files.
//
// # Errors
//
// Configuration problems (unknown filename mode or format, bad sizes, empty
// alphabet, unreadable font) abort before the first image. A sample whose
// text fits no font size is recorded in Report.Failures and the batch goes
// on. A write failure aborts the batch unless ContinueOnWriteError is set, in
// which case it is recorded as well.
package synth
