package domain

// CollectionInfo describes the state of the backing collection.
type CollectionInfo struct {
	// Name is the collection name.
	Name string

	// Exists is true if the collection is present in the store.
	Exists bool

	// TotalRecords is the number of documents, 0 when Exists is false.
	TotalRecords int
}

// DocumentPage is one page of a document listing.
type DocumentPage struct {
	// Documents are the records on this page.
	Documents []Document

	// Page is the 1-based page number.
	Page int

	// PerPage is the requested page size.
	PerPage int

	// TotalItems is the total matching record count.
	TotalItems int

	// TotalPages is the total page count.
	TotalPages int
}
