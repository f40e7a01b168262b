package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Saaayurii/Chat-sub000/internal/shared/constants"
	"github.com/Saaayurii/Chat-sub000/internal/shared/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.RegisterGinValidations()
}

// NewTestContext builds a context for calling a handler directly. A non-nil
// body is sent as JSON.
func NewTestContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	return c, w
}

// SetAuthContext simulates RequireOperator.
func SetAuthContext(c *gin.Context, operatorID, role string) {
	c.Set(constants.ContextKeyOperatorID, operatorID)
	c.Set(constants.ContextKeyOperatorRole, role)
}

func SetURLParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

func SetQueryParams(c *gin.Context, params map[string]string) {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	c.Request.URL.RawQuery = q.Encode()
}

// ParseResponse decodes the envelope written by utils.SuccessResponse and
// utils.ErrorResponse.
func ParseResponse(w *httptest.ResponseRecorder, target any) error {
	return json.Unmarshal(w.Body.Bytes(), target)
}

// APIResponse keeps Data raw so each test can decode its own DTO.
type APIResponse struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data,omitempty"`
	Error   *utils.ErrorInfo `json:"error,omitempty"`
	Message string           `json:"message,omitempty"`
}
