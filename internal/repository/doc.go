// Package repository provides data access for all persisted entities.
//
// Every repository embeds the generic base, which implements the shared
// persistence contract over a Mongo collection:
//
//   - Add      inserts and stamps _id/createdAt/updatedAt
//   - FindByID / FindOne / FindMany filter-based reads
//   - Update   partial $set via findOneAndUpdate, returns the post-update
//     document or nil when the document no longer exists
//   - Delete   returns whether a document was removed
//   - DeleteMany returns the removed count
//
// Missing documents are (nil, nil), not errors; services translate them to
// their own sentinels. Repositories accept session-scoped contexts from
// database.WithTransaction but never require them.
package repository
