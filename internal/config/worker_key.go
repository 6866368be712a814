package config

type WorkerKeyStruct struct {
	// ClassStatusLock is held by the instance running the class status sync.
	ClassStatusLock string
}

var WorkerKey = &WorkerKeyStruct{
	ClassStatusLock: "lock:class_status_sync",
}
