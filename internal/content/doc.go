// Package content parses site content files into Items.
//
// Each supported file extension maps to exactly one Kind through a static
// table. Files with unregistered extensions have no Kind and are skipped by
// callers. Parsing state that must not outlive a build (the EXIF switch and
// the list of images seen) lives on a Session.
package content
