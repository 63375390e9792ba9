// Package pdf provides the document adapters: a page splitter built on
// github.com/wudi/pdfkit and a page inspector built on github.com/pdfcpu/pdfcpu.
//
// The splitter writes one single-page PDF per input page into
// "<input dir>/<stem>-pages/<stem>-page_<n>.pdf", with n starting at 1,
// and returns the artifacts keyed by zero-based page index.
package pdf
