package config

type WorkerKeyStruct struct {
	NotifyForcedSubmitQueue string
}

var WorkerKey = &WorkerKeyStruct{
	NotifyForcedSubmitQueue: "notify_forced_submit_queue",
}
