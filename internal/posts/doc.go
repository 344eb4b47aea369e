// Package posts maintains the catalog of imported Markdown articles. The
// import workflow turns loaded documents into catalog records keyed by slug,
// derives deterministic identifiers so repeated imports stay idempotent, and
// skips sources whose checksum has not changed since the previous run.
package posts
