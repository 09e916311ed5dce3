package workflow

// Requisition is a request for labour on a BOQ item.
type Requisition struct {
	ID          string `json:"id"`
	BOQItemID   string `json:"boq_item_id"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	Locked      bool   `json:"locked"`
	Workers     int    `json:"workers_requested"`
}

// WorkerAssignment links a worker to a requisition.
type WorkerAssignment struct {
	ID            string `json:"id"`
	RequisitionID string `json:"requisition_id"`
	WorkerID      string `json:"worker_id"`
	WorkerName    string `json:"worker_name"`
	Role          string `json:"role"`
}

// IsLabourFinalized reports whether the requisition's labour cost lines
// are final: it must be approved and locked.
func IsLabourFinalized(r Requisition) bool {
	return r.Locked && r.Status == StatusApproved
}

// LabourProgress summarises requisitions and their assignments.
type LabourProgress struct {
	Requisitions    int  `json:"requisitions"`
	Finalized       int  `json:"finalized"`
	Pending         int  `json:"pending"`
	AssignedWorkers int  `json:"assigned_workers"`
	AllFinalized    bool `json:"all_finalized"`
}

func SummarizeRequisitions(reqs []Requisition, assignments []WorkerAssignment) LabourProgress {
	p := LabourProgress{Requisitions: len(reqs)}
	for _, r := range reqs {
		if IsLabourFinalized(r) {
			p.Finalized++
		} else {
			p.Pending++
		}
	}
	workers := make(map[string]struct{})
	for _, a := range assignments {
		workers[a.WorkerID] = struct{}{}
	}
	p.AssignedWorkers = len(workers)
	p.AllFinalized = p.Requisitions > 0 && p.Pending == 0
	return p
}
