package models

// Snapshot is an immutable, consistent view of every collection a session
// observes. A new value is published on each change; readers must not mutate.
type Snapshot struct {
	Version    uint64      `json:"version"`
	Students   []Student   `json:"students"`
	Programs   []Program   `json:"programs"`
	Inquiries  []Inquiry   `json:"inquiries"`
	Potentials []Potential `json:"potentials"`
	Batches    []Batch     `json:"batches"`
	Exams      ExamResults `json:"exams"`
	Employees  []Employee  `json:"employees"`

	// ExamsErr is set while the stored exams tree cannot be decoded. Exams
	// then holds the last tree that decoded cleanly.
	ExamsErr error `json:"-"`
}

// Inquiry finds an inquiry by id.
func (s *Snapshot) Inquiry(id string) (Inquiry, bool) {
	for _, inquiry := range s.Inquiries {
		if inquiry.ID == id {
			return inquiry, true
		}
	}
	return Inquiry{}, false
}

// Potential finds a potential by id.
func (s *Snapshot) Potential(id string) (Potential, bool) {
	for _, potential := range s.Potentials {
		if potential.ID == id {
			return potential, true
		}
	}
	return Potential{}, false
}

// Student finds a student by id.
func (s *Snapshot) Student(id string) (Student, bool) {
	for _, student := range s.Students {
		if student.ID == id {
			return student, true
		}
	}
	return Student{}, false
}

// Program finds a program by id.
func (s *Snapshot) Program(id string) (Program, bool) {
	for _, program := range s.Programs {
		if program.ID == id {
			return program, true
		}
	}
	return Program{}, false
}

// Batch finds a batch by id.
func (s *Snapshot) Batch(id string) (Batch, bool) {
	for _, batch := range s.Batches {
		if batch.ID == id {
			return batch, true
		}
	}
	return Batch{}, false
}

// ProgramNames indexes program names by id for display lookups.
func (s *Snapshot) ProgramNames() map[string]string {
	out := make(map[string]string, len(s.Programs))
	for _, p := range s.Programs {
		out[p.ID] = p.Name
	}
	return out
}

// BatchNames indexes batch names by id.
func (s *Snapshot) BatchNames() map[string]string {
	out := make(map[string]string, len(s.Batches))
	for _, b := range s.Batches {
		out[b.ID] = b.Name
	}
	return out
}

// EmployeeNames indexes employee names by id.
func (s *Snapshot) EmployeeNames() map[string]string {
	out := make(map[string]string, len(s.Employees))
	for _, e := range s.Employees {
		out[e.ID] = e.Name
	}
	return out
}
