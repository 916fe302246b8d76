// Package projection turns loosely typed object-list rows into display-ready roster cards.
//
// # Rows and fields
//
// A [Row] is a listable entity (a roster member) with a title and an ordered slice of [Field]s.
// Each field carries a tagged [FieldValue]: scalar fields use {type, value}, image fields use
// {type: "image", url, thumbnail_url}. Field keys are not unique; every lookup takes the first match.
//
// # Extraction
//
// [StringField] and [NumberField] share one traversal and differ only in the scalar type they accept.
// Missing rows, fields, values, and wrong scalar types all report "no value" through the usual
// comma-ok result. [ImageURL] finds the first image-tagged field and prefers its thumbnail.
//
// # Derived values
//
// [Initials], [ColorClass] and [Age] compute avatar initials, a palette class chosen by a character
// code sum, and whole-year age from a birthdate. All three are pure and never fail.
//
// # Projection
//
// A [Projector] resolves which column plays which role (email, phone, city, age, gender, birthdate,
// social handles) once per result set, then maps each row to a [DisplayRecord]. Rows and columns are
// never mutated.
package projection
