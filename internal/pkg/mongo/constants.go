package mongo

const (
	store          = "store"
	jobTable       = "jobs"
	emailLockTable = "emailLock"
)

var indexData = []IndexData{
	newIndexData(jobTable, "ID", true),
	newIndexData(emailLockTable, "ID", false)}
