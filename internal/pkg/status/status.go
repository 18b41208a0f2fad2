package status

//Status represents the job lifecycle state
type Status int

const (
	//Queued - job record is persisted, pipeline not started yet
	Queued Status = iota + 1
	//Processing - pipeline is driving the job
	Processing
	//Success terminal value
	Success
	//Failed terminal value
	Failed
	//Waiting - failed job was flipped to be run again
	Waiting
)

var (
	statusName = map[Status]string{Queued: "queued", Processing: "processing",
		Success: "success", Failed: "failed", Waiting: "waiting"}
	nameStatus = map[string]Status{"queued": Queued, "processing": Processing,
		"success": Success, "failed": Failed, "waiting": Waiting}
)

//Name returns string value of the status
func Name(st Status) string {
	return statusName[st]
}

//From parses status from string
func From(st string) Status {
	return nameStatus[st]
}

//IsTerminal returns true for statuses that never change afterwards
func IsTerminal(st Status) bool {
	return st == Success || st == Failed
}
