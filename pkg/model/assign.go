package model

// AssignmentPolicy decides who a task is assigned to when it is created on, or moved onto, a list.
type AssignmentPolicy interface {
	// Assignee is consulted when current creates a task on listID.
	Assignee(current User, users []User, listID string) string
	// Reassign is consulted when current moves task onto listID.
	Reassign(task Task, current User, users []User, listID string) string
}

// SelfAssignment assigns every task to its creator and never changes it afterwards.
type SelfAssignment struct{}

// Assignee implements AssignmentPolicy.
func (SelfAssignment) Assignee(current User, _ []User, _ string) string {
	return current.ID
}

// Reassign implements AssignmentPolicy.
func (SelfAssignment) Reassign(task Task, _ User, _ []User, _ string) string {
	return task.AssignedTo
}

// RoutedAssignment sends tasks an admin puts on the assigned virtual list to the delegate user.
// Everything else is assigned to the acting user, and moves elsewhere keep the assignee.
type RoutedAssignment struct{}

// Assignee implements AssignmentPolicy.
func (RoutedAssignment) Assignee(current User, users []User, listID string) string {
	if delegate, ok := routed(current, users, listID); ok {
		return delegate
	}

	return current.ID
}

// Reassign implements AssignmentPolicy.
func (RoutedAssignment) Reassign(task Task, current User, users []User, listID string) string {
	if delegate, ok := routed(current, users, listID); ok {
		return delegate
	}

	return task.AssignedTo
}

func routed(current User, users []User, listID string) (string, bool) {
	if current.Role != RoleAdmin || listID != AssignedListID {
		return "", false
	}

	delegate, ok := Delegate(users)
	if !ok {
		return "", false
	}

	return delegate.ID, true
}
