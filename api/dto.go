package api

type BookRequest struct {
	StartTime    string `json:"startTime"`
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
}

type BookResult struct {
	Success  bool   `json:"success"`
	EventID  string `json:"eventId,omitempty"`
	MeetLink string `json:"meetLink,omitempty"`
	Error    string `json:"error,omitempty"`
}

type SlotList struct {
	Date  string   `json:"date"`
	Times []string `json:"times"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ContactResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type BookingResponse struct {
	ID           string `json:"id"`
	EventID      string `json:"event_id"`
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	MeetLink     string `json:"meet_link,omitempty"`
	CreatedAt    string `json:"created_at"`
}
