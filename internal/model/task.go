package model

// ProbeTask is one (username, site) pair scheduled for probing.
//
// Tasks are created at enumeration time, consumed exactly once by a
// worker, and carry the ordinal that downstream consumers use to
// reconstruct submission order from out-of-order completions.
type ProbeTask struct {
	// Username is the account name being checked.
	Username string

	// Site is the target website descriptor.
	Site Site

	// Ordinal is the 1-based sequential index assigned at enumeration
	// time. It is the sole ordering key and is never reused.
	Ordinal int

	// Total is the number of tasks in the run, used for "[i/N]" output.
	Total int
}

// BuildTasks enumerates the cross product of usernames and sites into
// probe tasks, assigning ordinals 1..total in enumeration order.
func BuildTasks(usernames []string, sites []Site) []*ProbeTask {
	total := len(usernames) * len(sites)
	tasks := make([]*ProbeTask, 0, total)
	ordinal := 1
	for _, user := range usernames {
		for _, site := range sites {
			tasks = append(tasks, &ProbeTask{
				Username: user,
				Site:     site,
				Ordinal:  ordinal,
				Total:    total,
			})
			ordinal++
		}
	}
	return tasks
}
