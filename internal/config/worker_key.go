package config

type WorkerKeyStruct struct {
	PersistSessionsQueue   string
	PersistProctoringQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistSessionsQueue:   "persist_sessions_queue",
	PersistProctoringQueue: "persist_proctoring_queue",
}
