package employee

// ToRecord builds a new record from req. ID stays zero until the store assigns it.
func ToRecord(req *EmployeeRequest) *Employee {
	if req == nil {
		return nil
	}

	e := &Employee{}
	ApplyUpdate(e, req)
	return e
}

// ToResponse copies every field except the password.
func ToResponse(e *Employee) *EmployeeResponse {
	if e == nil {
		return nil
	}

	return &EmployeeResponse{
		ID:         e.ID,
		Email:      e.Email,
		Name:       e.Name,
		Department: e.Department,
		Salary:     e.Salary,
		Gender:     e.Gender,
		DOB:        timeToDate(e.DOB),
		JoinDate:   timeToDate(e.JoinDate),
		Skills:     cloneSkills(e.Skills),
	}
}

// ApplyUpdate overwrites every field of e, email and password included, with
// the values from req. The ID is left alone.
func ApplyUpdate(e *Employee, req *EmployeeRequest) {
	if e == nil || req == nil {
		return
	}

	e.Email = req.Email
	e.Name = req.Name
	e.Department = req.Department
	e.Salary = 0
	if req.Salary != nil {
		e.Salary = *req.Salary
	}
	e.Password = req.Password
	e.Gender = req.Gender
	e.DOB = dateToTime(req.DOB)
	e.JoinDate = dateToTime(req.JoinDate)
	e.Skills = cloneSkills(req.Skills)
}

func cloneSkills(skills []string) []string {
	if skills == nil {
		return nil
	}
	out := make([]string, len(skills))
	copy(out, skills)
	return out
}
