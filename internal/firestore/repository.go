package firestore

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"

	"github.com/at-ishikawa/studyplanner/internal/board"
	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/study"
)

const (
	disciplinesCollection  = "disciplines"
	studiesCollection      = "studies"
	customEventsCollection = "customEvents"
	taskListsCollection    = "taskLists"
	tasksCollection        = "tasks"
)

var (
	_ study.DisciplineRepository = (*DisciplineRepository)(nil)
	_ study.StudyRepository      = (*StudyRepository)(nil)
	_ calendar.EventRepository   = (*EventRepository)(nil)
	_ board.Repository           = (*BoardRepository)(nil)
)

// notFound replaces a missing-document error with the domain sentinel.
func notFound(err error, sentinel error, id string) error {
	if errors.Is(err, errDocumentNotFound) {
		return fmt.Errorf("%w: %s", sentinel, id)
	}
	return err
}

func newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// DisciplineRepository implements study.DisciplineRepository on users/{uid}/disciplines.
type DisciplineRepository struct {
	client *Client
}

func NewDisciplineRepository(client *Client) *DisciplineRepository {
	return &DisciplineRepository{client: client}
}

func (r *DisciplineRepository) FindAll(ctx context.Context, userID string) ([]study.Discipline, error) {
	documents, err := r.client.listDocuments(ctx, r.client.userPath(userID), disciplinesCollection, "name")
	if err != nil {
		return nil, fmt.Errorf("listDocuments(disciplines) > %w", err)
	}

	disciplines := make([]study.Discipline, 0, len(documents))
	for _, doc := range documents {
		createdAt, err := doc.Fields.time("createdAt")
		if err != nil {
			return nil, fmt.Errorf("discipline %s > %w", doc.id(), err)
		}
		disciplines = append(disciplines, study.Discipline{
			ID:        doc.id(),
			Name:      doc.Fields.str("name"),
			CreatedAt: createdAt,
		})
	}
	return disciplines, nil
}

func (r *DisciplineRepository) Create(ctx context.Context, userID string, discipline *study.Discipline) error {
	discipline.ID = newID(discipline.ID)
	if err := r.client.createDocument(ctx, r.client.userPath(userID), disciplinesCollection, discipline.ID, fields{
		"name":      stringValue(discipline.Name),
		"createdAt": timestampValue(discipline.CreatedAt),
	}); err != nil {
		return fmt.Errorf("createDocument(discipline) > %w", err)
	}
	return nil
}

func (r *DisciplineRepository) Delete(ctx context.Context, userID, id string) error {
	name := r.client.userPath(userID) + "/" + disciplinesCollection + "/" + id
	if err := r.client.deleteDocument(ctx, name); err != nil {
		return notFound(err, study.ErrNotFound, id)
	}
	return nil
}

// StudyRepository implements study.StudyRepository on users/{uid}/studies.
// Reviews are embedded in the study document as an array of maps.
type StudyRepository struct {
	client *Client
}

func NewStudyRepository(client *Client) *StudyRepository {
	return &StudyRepository{client: client}
}

func studyFields(record *study.StudyRecord) fields {
	return fields{
		"disciplineId": stringValue(record.DisciplineID),
		"subject":      stringValue(record.Subject),
		"studyDate":    dateValue(record.StudyDate),
		"link":         stringValue(record.Link),
		"reviews":      reviewsValue(record.Reviews),
		"createdAt":    timestampValue(record.CreatedAt),
		"updatedAt":    optionalTimestampValue(record.UpdatedAt),
	}
}

func reviewsValue(reviews []study.Review) value {
	values := make([]value, 0, len(reviews))
	for _, review := range reviews {
		values = append(values, mapOf(fields{
			"date":      dateValue(review.Date),
			"days":      intValue(review.Days.Days()),
			"completed": boolValue(review.Completed),
		}))
	}
	return arrayOf(values...)
}

func toStudyRecord(doc document) (study.StudyRecord, error) {
	record := study.StudyRecord{
		ID:           doc.id(),
		DisciplineID: doc.Fields.str("disciplineId"),
		Subject:      doc.Fields.str("subject"),
		Link:         doc.Fields.str("link"),
		Reviews:      []study.Review{},
	}
	var err error
	if record.StudyDate, err = doc.Fields.date("studyDate"); err != nil {
		return study.StudyRecord{}, err
	}
	if record.CreatedAt, err = doc.Fields.time("createdAt"); err != nil {
		return study.StudyRecord{}, err
	}
	if record.UpdatedAt, err = doc.Fields.timestamp("updatedAt"); err != nil {
		return study.StudyRecord{}, err
	}

	for i, v := range doc.Fields.array("reviews") {
		if v.MapValue == nil {
			return study.StudyRecord{}, fmt.Errorf("review %d is not a map", i)
		}
		f := v.MapValue.Fields
		date, err := f.date("date")
		if err != nil {
			return study.StudyRecord{}, fmt.Errorf("review %d > %w", i, err)
		}
		days, err := f.integer("days")
		if err != nil {
			return study.StudyRecord{}, fmt.Errorf("review %d > %w", i, err)
		}
		record.Reviews = append(record.Reviews, study.Review{
			Date:      date,
			Days:      study.ReviewOffset(days),
			Completed: f.boolean("completed"),
		})
	}
	return record, nil
}

func (r *StudyRepository) name(userID, id string) string {
	return r.client.userPath(userID) + "/" + studiesCollection + "/" + id
}

func (r *StudyRepository) FindAll(ctx context.Context, userID string) ([]study.StudyRecord, error) {
	documents, err := r.client.listDocuments(ctx, r.client.userPath(userID), studiesCollection, "createdAt")
	if err != nil {
		return nil, fmt.Errorf("listDocuments(studies) > %w", err)
	}

	records := make([]study.StudyRecord, 0, len(documents))
	for _, doc := range documents {
		record, err := toStudyRecord(doc)
		if err != nil {
			return nil, fmt.Errorf("study %s > %w", doc.id(), err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *StudyRepository) FindByID(ctx context.Context, userID, id string) (*study.StudyRecord, error) {
	doc, err := r.client.getDocument(ctx, r.name(userID, id))
	if err != nil {
		return nil, notFound(err, study.ErrNotFound, id)
	}
	record, err := toStudyRecord(doc)
	if err != nil {
		return nil, fmt.Errorf("study %s > %w", id, err)
	}
	return &record, nil
}

func (r *StudyRepository) Create(ctx context.Context, userID string, record *study.StudyRecord) error {
	record.ID = newID(record.ID)
	if err := r.client.createDocument(ctx, r.client.userPath(userID), studiesCollection, record.ID, studyFields(record)); err != nil {
		return fmt.Errorf("createDocument(study) > %w", err)
	}
	return nil
}

func (r *StudyRepository) Update(ctx context.Context, userID string, record *study.StudyRecord) error {
	f := studyFields(record)
	delete(f, "createdAt")
	mask := []string{"disciplineId", "subject", "studyDate", "link", "reviews", "updatedAt"}
	if err := r.client.patchDocument(ctx, r.name(userID, record.ID), f, mask); err != nil {
		return notFound(err, study.ErrNotFound, record.ID)
	}
	return nil
}

func (r *StudyRepository) UpdateReviews(ctx context.Context, userID, id string, reviews []study.Review) error {
	if err := r.client.patchDocument(ctx, r.name(userID, id), fields{
		"reviews": reviewsValue(reviews),
	}, []string{"reviews"}); err != nil {
		return notFound(err, study.ErrNotFound, id)
	}
	return nil
}

func (r *StudyRepository) Delete(ctx context.Context, userID, id string) error {
	if err := r.client.deleteDocument(ctx, r.name(userID, id)); err != nil {
		return notFound(err, study.ErrNotFound, id)
	}
	return nil
}

// EventRepository implements calendar.EventRepository on users/{uid}/customEvents.
type EventRepository struct {
	client *Client
}

func NewEventRepository(client *Client) *EventRepository {
	return &EventRepository{client: client}
}

func (r *EventRepository) FindAll(ctx context.Context, userID string) ([]calendar.CustomEvent, error) {
	documents, err := r.client.listDocuments(ctx, r.client.userPath(userID), customEventsCollection, "date")
	if err != nil {
		return nil, fmt.Errorf("listDocuments(customEvents) > %w", err)
	}

	events := make([]calendar.CustomEvent, 0, len(documents))
	for _, doc := range documents {
		date, err := doc.Fields.date("date")
		if err != nil {
			return nil, fmt.Errorf("custom event %s > %w", doc.id(), err)
		}
		createdAt, err := doc.Fields.time("createdAt")
		if err != nil {
			return nil, fmt.Errorf("custom event %s > %w", doc.id(), err)
		}
		events = append(events, calendar.CustomEvent{
			ID:          doc.id(),
			Title:       doc.Fields.str("title"),
			Description: doc.Fields.str("description"),
			Date:        date,
			CreatedAt:   createdAt,
		})
	}
	return events, nil
}

func (r *EventRepository) Create(ctx context.Context, userID string, event *calendar.CustomEvent) error {
	event.ID = newID(event.ID)
	if err := r.client.createDocument(ctx, r.client.userPath(userID), customEventsCollection, event.ID, fields{
		"title":       stringValue(event.Title),
		"description": stringValue(event.Description),
		"date":        dateValue(event.Date),
		"createdAt":   timestampValue(event.CreatedAt),
	}); err != nil {
		return fmt.Errorf("createDocument(customEvent) > %w", err)
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, userID, id string) error {
	name := r.client.userPath(userID) + "/" + customEventsCollection + "/" + id
	if err := r.client.deleteDocument(ctx, name); err != nil {
		return notFound(err, study.ErrNotFound, id)
	}
	return nil
}

// BoardRepository implements board.Repository on users/{uid}/taskLists and the
// tasks subcollection of each list.
type BoardRepository struct {
	client *Client
}

func NewBoardRepository(client *Client) *BoardRepository {
	return &BoardRepository{client: client}
}

func (r *BoardRepository) listName(userID, listID string) string {
	return r.client.userPath(userID) + "/" + taskListsCollection + "/" + listID
}

func (r *BoardRepository) taskName(userID, listID, taskID string) string {
	return r.listName(userID, listID) + "/" + tasksCollection + "/" + taskID
}

func taskFields(task *board.Task) fields {
	return fields{
		"title":       stringValue(task.Title),
		"description": stringValue(task.Description),
		"order":       intValue(task.Position),
		"createdAt":   timestampValue(task.CreatedAt),
		"updatedAt":   optionalTimestampValue(task.UpdatedAt),
	}
}

func toTask(doc document) (board.Task, error) {
	position, err := doc.Fields.integer("order")
	if err != nil {
		return board.Task{}, err
	}
	createdAt, err := doc.Fields.time("createdAt")
	if err != nil {
		return board.Task{}, err
	}
	updatedAt, err := doc.Fields.timestamp("updatedAt")
	if err != nil {
		return board.Task{}, err
	}
	return board.Task{
		ID:          doc.id(),
		Title:       doc.Fields.str("title"),
		Description: doc.Fields.str("description"),
		Position:    position,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// FindAll reads the lists, then every task of the user with one collection group query.
func (r *BoardRepository) FindAll(ctx context.Context, userID string) ([]board.TaskList, error) {
	listDocuments, err := r.client.listDocuments(ctx, r.client.userPath(userID), taskListsCollection, "order")
	if err != nil {
		return nil, fmt.Errorf("listDocuments(taskLists) > %w", err)
	}

	lists := make([]board.TaskList, 0, len(listDocuments))
	listIndex := make(map[string]int, len(listDocuments))
	for _, doc := range listDocuments {
		position, err := doc.Fields.integer("order")
		if err != nil {
			return nil, fmt.Errorf("task list %s > %w", doc.id(), err)
		}
		createdAt, err := doc.Fields.time("createdAt")
		if err != nil {
			return nil, fmt.Errorf("task list %s > %w", doc.id(), err)
		}
		listIndex[doc.id()] = len(lists)
		lists = append(lists, board.TaskList{
			ID:        doc.id(),
			Title:     doc.Fields.str("title"),
			Position:  position,
			Tasks:     []board.Task{},
			CreatedAt: createdAt,
		})
	}
	if len(lists) == 0 {
		return lists, nil
	}

	taskDocuments, err := r.client.runQuery(ctx, r.client.userPath(userID), structuredQuery{
		From:    []collectionSelector{{CollectionID: tasksCollection, AllDescendants: true}},
		OrderBy: []order{{Field: fieldReference{FieldPath: "order"}, Direction: "ASCENDING"}},
	})
	if err != nil {
		return nil, fmt.Errorf("runQuery(tasks) > %w", err)
	}
	for _, doc := range taskDocuments {
		// users/{uid}/taskLists/{listId}/tasks/{taskId}
		listID := path.Base(path.Dir(path.Dir(doc.Name)))
		i, ok := listIndex[listID]
		if !ok {
			continue
		}
		task, err := toTask(doc)
		if err != nil {
			return nil, fmt.Errorf("task %s > %w", doc.id(), err)
		}
		lists[i].Tasks = append(lists[i].Tasks, task)
	}
	return lists, nil
}

func (r *BoardRepository) CreateList(ctx context.Context, userID string, list *board.TaskList) error {
	list.ID = newID(list.ID)
	if err := r.client.createDocument(ctx, r.client.userPath(userID), taskListsCollection, list.ID, fields{
		"title":     stringValue(list.Title),
		"order":     intValue(list.Position),
		"createdAt": timestampValue(list.CreatedAt),
	}); err != nil {
		return fmt.Errorf("createDocument(taskList) > %w", err)
	}
	return nil
}

// DeleteList deletes the tasks of the list and the list in one commit.
func (r *BoardRepository) DeleteList(ctx context.Context, userID, listID string) error {
	if err := r.ensureList(ctx, userID, listID); err != nil {
		return err
	}
	tasks, err := r.client.listDocuments(ctx, r.listName(userID, listID), tasksCollection, "order")
	if err != nil {
		return fmt.Errorf("listDocuments(tasks) > %w", err)
	}

	writes := make([]write, 0, len(tasks)+1)
	for _, task := range tasks {
		writes = append(writes, write{Delete: task.Name})
	}
	writes = append(writes, write{Delete: r.listName(userID, listID)})
	if err := r.client.commit(ctx, writes); err != nil {
		return fmt.Errorf("commit(delete taskList) > %w", err)
	}
	return nil
}

func (r *BoardRepository) CreateTask(ctx context.Context, userID, listID string, task *board.Task) error {
	if err := r.ensureList(ctx, userID, listID); err != nil {
		return err
	}
	task.ID = newID(task.ID)
	if err := r.client.createDocument(ctx, r.listName(userID, listID), tasksCollection, task.ID, taskFields(task)); err != nil {
		return fmt.Errorf("createDocument(task) > %w", err)
	}
	return nil
}

func (r *BoardRepository) UpdateTask(ctx context.Context, userID, listID string, task *board.Task) error {
	if err := r.client.patchDocument(ctx, r.taskName(userID, listID, task.ID), fields{
		"title":       stringValue(task.Title),
		"description": stringValue(task.Description),
		"updatedAt":   optionalTimestampValue(task.UpdatedAt),
	}, []string{"title", "description", "updatedAt"}); err != nil {
		return notFound(err, board.ErrTaskNotFound, task.ID)
	}
	return nil
}

func (r *BoardRepository) DeleteTask(ctx context.Context, userID, listID, taskID string) error {
	if err := r.client.deleteDocument(ctx, r.taskName(userID, listID, taskID)); err != nil {
		return notFound(err, board.ErrTaskNotFound, taskID)
	}
	return nil
}

// MoveTask deletes the task from the source list and writes it under the target list
// with the same document id in one commit.
func (r *BoardRepository) MoveTask(ctx context.Context, userID, taskID, sourceListID, targetListID string, position int) error {
	source := r.taskName(userID, sourceListID, taskID)
	doc, err := r.client.getDocument(ctx, source)
	if err != nil {
		return notFound(err, board.ErrTaskNotFound, taskID)
	}
	if err := r.ensureList(ctx, userID, targetListID); err != nil {
		return err
	}

	moved := doc.Fields
	if moved == nil {
		moved = fields{}
	}
	moved["order"] = intValue(position)
	if err := r.client.commit(ctx, []write{
		{Delete: source, CurrentDocument: exists(true)},
		{
			Update:          &document{Name: r.taskName(userID, targetListID, taskID), Fields: moved},
			CurrentDocument: exists(false),
		},
	}); err != nil {
		return fmt.Errorf("commit(move task) > %w", err)
	}
	return nil
}

func (r *BoardRepository) ensureList(ctx context.Context, userID, listID string) error {
	if _, err := r.client.getDocument(ctx, r.listName(userID, listID)); err != nil {
		return notFound(err, board.ErrListNotFound, listID)
	}
	return nil
}
