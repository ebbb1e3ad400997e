// Package canonical assembles interpreted EDIFACT segments into one
// canonical, JSON-serializable document for downstream systems.
//
// Conversion buckets header segments (UNB, UNH, BGM) into the header map,
// trailers (UNT, UNZ) into metadata, and every other known tag into the
// body; unknown tags still appear in the flat segments list marked
// unmapped for auditability. UTILMD and MSCONS messages additionally get
// message-type-specific buckets.
//
// Conversion is a pure function of the interchange: with a fixed clock the
// same input always yields byte-identical JSON output.
package canonical
