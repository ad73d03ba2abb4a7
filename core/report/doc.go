// Package report writes comparison datasets as CSV and JSON files.
//
// Every dataset of a compare.Result is written to "<base><dataset>.csv" and/or
// "<base><dataset>.json" where the base is "abscomp_books_<yymmdd>_". Comparison datasets
// (both, missing_one, missing_two) carry the bibliographic columns only; the full catalogs
// (one_full, two_full) also carry the added timestamp, file count and size.
//
// JSON files hold one object keyed like the catalog (ASIN or item ID) with all book fields,
// indented by four spaces, non-ASCII text unescaped and entries in catalog order.
//
// An Uploader copies written files to object storage.
package report
