package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/focusflow/focusflow-api/internal/constants"
	"github.com/focusflow/focusflow-api/internal/database"
	"github.com/focusflow/focusflow-api/internal/models"
	"github.com/focusflow/focusflow-api/internal/repository"
	"github.com/focusflow/focusflow-api/internal/services"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	teamRepo := repository.NewTeamRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	taskService := services.NewTaskService(taskRepo, userRepo, teamRepo, nil)
	suite.handler = NewTaskHandler(taskService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         models.DefaultRole,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTeam(name string, memberIDs ...uint64) *models.Team {
	team := &models.Team{Name: name}
	suite.db.Create(team)
	for _, id := range memberIDs {
		suite.db.Create(&models.TeamMember{
			TeamID:   team.ID,
			UserID:   id,
			JoinedAt: time.Now(),
		})
	}
	return team
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, creatorID uint64) *models.Task {
	due := time.Now().Add(48 * time.Hour)
	task := &models.Task{
		Title:     title,
		DueDate:   &due,
		Status:    models.TaskStatusOpen,
		CreatorID: creatorID,
	}
	suite.db.Create(task)
	return task
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *TaskHandlerTestSuite) setIDParam(c *gin.Context, id uint64) {
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", id)}}
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	user := suite.createTestUser("creator@example.com")

	requestBody := map[string]interface{}{
		"title":    "New Task",
		"due_date": time.Now().Add(48 * time.Hour).Format("2006-01-02"),
		"priority": "HIGH",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.NotContains(suite.T(), response, "warning")

	task := response["task"].(map[string]interface{})
	assert.Equal(suite.T(), "New Task", task["title"])
	assert.Equal(suite.T(), "OPEN", task["status"])
}

func (suite *TaskHandlerTestSuite) TestCreateTask_NotificationWarning() {
	user := suite.createTestUser("creator@example.com")
	assignee := suite.createTestUser("assignee@example.com")
	suite.createTestTeam("Shared", user.ID, assignee.ID)

	requestBody := map[string]interface{}{
		"title":                         "Notify me",
		"due_date":                      time.Now().Add(48 * time.Hour).Format("2006-01-02"),
		"assignee_email":                assignee.Email,
		"simulate_notification_failure": true,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), response, "warning")
}

func (suite *TaskHandlerTestSuite) TestCreateTask_TitleTooShort() {
	user := suite.createTestUser("creator@example.com")

	requestBody := map[string]interface{}{
		"title":    "ab",
		"due_date": time.Now().Add(48 * time.Hour).Format("2006-01-02"),
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_PastDueDate() {
	user := suite.createTestUser("creator@example.com")

	requestBody := map[string]interface{}{
		"title":    "Too late",
		"due_date": time.Now().Add(-48 * time.Hour).Format("2006-01-02"),
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_AssigneeOutsideTeams() {
	user := suite.createTestUser("creator@example.com")
	assignee := suite.createTestUser("assignee@example.com")

	requestBody := map[string]interface{}{
		"title":          "Cross-team",
		"due_date":       time.Now().Add(48 * time.Hour).Format("2006-01-02"),
		"assignee_email": assignee.Email,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Unauthorized() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/tasks", bytes.NewReader([]byte("{}")))
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_Success() {
	user := suite.createTestUser("creator@example.com")
	task := suite.createTestTask("Existing", user.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, user.ID)
	suite.setIDParam(c, task.ID)

	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Existing", response["title"])
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	user := suite.createTestUser("creator@example.com")

	c, w := suite.createAuthContext("GET", "/api/tasks/9999", nil, user.ID)
	suite.setIDParam(c, 9999)

	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Pagination() {
	user := suite.createTestUser("creator@example.com")
	for i := 0; i < 3; i++ {
		suite.createTestTask(fmt.Sprintf("Task %d", i), user.ID)
	}

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)
	c.Request.URL.RawQuery = "page=1&limit=2"

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	tasks := response["tasks"].([]interface{})
	assert.Len(suite.T(), tasks, 2)
	assert.EqualValues(suite.T(), 3, response["total_count"])
	assert.EqualValues(suite.T(), 2, response["total_pages"])
}

func (suite *TaskHandlerTestSuite) TestListTasks_StatusFilter() {
	user := suite.createTestUser("creator@example.com")
	task := suite.createTestTask("Open task", user.ID)
	closed := suite.createTestTask("Closed task", user.ID)
	suite.db.Model(closed).Update("status", models.TaskStatusClosed)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)
	c.Request.URL.RawQuery = "status=OPEN"

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	tasks := response["tasks"].([]interface{})
	assert.Len(suite.T(), tasks, 1)
	first := tasks[0].(map[string]interface{})
	assert.Equal(suite.T(), task.Title, first["title"])
}

func (suite *TaskHandlerTestSuite) TestListTasks_InvalidStatus() {
	user := suite.createTestUser("creator@example.com")

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)
	c.Request.URL.RawQuery = "status=DONE"

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_Success() {
	user := suite.createTestUser("creator@example.com")
	task := suite.createTestTask("Old Title", user.ID)

	requestBody := map[string]interface{}{
		"title":  "Updated Title",
		"status": "IN_REVIEW",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", body, user.ID)
	suite.setIDParam(c, task.ID)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Updated Title", response["title"])
	assert.Equal(suite.T(), "IN_REVIEW", response["status"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_InvalidBody() {
	user := suite.createTestUser("creator@example.com")
	task := suite.createTestTask("Test Task", user.ID)

	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", []byte("invalid json"), user.ID)
	suite.setIDParam(c, task.ID)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_Success() {
	user := suite.createTestUser("creator@example.com")
	task := suite.createTestTask("Task to Delete", user.ID)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, user.ID)
	suite.setIDParam(c, task.ID)

	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// Soft delete hides the row from normal queries
	var deleted models.Task
	err := suite.db.First(&deleted, task.ID).Error
	assert.Error(suite.T(), err)
}

func (suite *TaskHandlerTestSuite) TestListTasksForUser() {
	user := suite.createTestUser("creator@example.com")
	task := suite.createTestTask("Assigned", user.ID)
	suite.db.Model(task).Update("assignee_id", user.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/for-user", nil, user.ID)
	c.Request.URL.RawQuery = fmt.Sprintf("user_id=%d", user.ID)

	suite.handler.ListTasksForUser(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	tasks := response["tasks"].([]interface{})
	assert.Len(suite.T(), tasks, 1)
}

func (suite *TaskHandlerTestSuite) TestGenerateTasks_ServiceUnavailable() {
	user := suite.createTestUser("creator@example.com")

	requestBody := map[string]interface{}{
		"text": "plan the next sprint",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks/generate", body, user.ID)

	suite.handler.GenerateTasks(c)

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

// TestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
