// Package collection keeps the record store and the screenshot directory
// consistent. It is the only component that writes to both: records are
// created before their screenshot (the file name embeds the record id), and a
// superseded screenshot is removed before its replacement is written.
//
// Mutations are serialized so concurrent callers cannot interleave the
// read-modify-write of a record's screenshot path.
package collection
