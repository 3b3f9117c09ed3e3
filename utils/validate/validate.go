package validate

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"vocalis/internal/core"
	cErr "vocalis/internal/pkg/error"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 輸出格式化的 validator error（欄位 json 名/型別/規則列表）
func ValidationErrorResponse(c *gin.Context, obj interface{}, err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok {
		var b strings.Builder
		b.WriteString("Validation error:\n")
		for _, fe := range errs {
			field := jsonFieldName(obj, fe.StructField())
			ftype := fieldType(obj, fe.StructField())
			format := getFieldFormat(obj, fe.StructField())
			b.WriteString(fmt.Sprintf(" - Field \"%s\" (type: %s) failed the '%s' validation (rules: %v)\n",
				field, ftype, fe.Tag(), format))
		}
		return b.String()
	}
	return fmt.Sprintf("Validation error: %s", err.Error())
}

func jsonFieldName(obj interface{}, structField string) string {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(structField); ok {
		tag := f.Tag.Get("json")
		if tag != "" && tag != "-" {
			return strings.Split(tag, ",")[0]
		}
	}
	return structField
}

func fieldType(obj interface{}, structField string) string {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(structField); ok {
		return f.Type.Name()
	}
	return ""
}

func getFieldFormat(obj interface{}, structField string) []string {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(structField); ok {
		tag := f.Tag.Get("binding")
		if tag != "" {
			return strings.Split(tag, ",")
		}
	}
	return nil
}
func ParseObjectID(c *gin.Context, key string) (id primitive.ObjectID, cause error, responseErr error) {
	id, err := primitive.ObjectIDFromHex(c.Param(key))
	if err != nil {
		return primitive.NilObjectID, err, cErr.ValidatePathParamsErr("invalid " + key)
	}
	return id, nil, nil
}

func ParseInt64Param(c *gin.Context, key string) (int64, error, error) {
	n, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil {
		return 0, err, cErr.ValidatePathParamsErr("invalid " + key)
	}
	return n, nil, nil
}

func BindAndValidate(c *gin.Context, req any) (cause error, responseErr error) {
	if err := c.ShouldBindJSON(req); err != nil {
		return err, cErr.ValidateErr(ValidationErrorResponse(c, req, err))
	}
	return nil, nil
}
func GetInt64Query(c *gin.Context, key string, defaultVal int64) (int64, error) {
	if v := c.Query(key); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return n, nil
	}
	return defaultVal, nil
}
func PayloadToMap(payload any) (map[string]any, error) {
	// 先轉 JSON
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	// 再轉回 map[string]any
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ===== 上傳音檔副檔名 =====

// IsAllowedAudioFile 比對副檔名白名單（大小寫不敏感）。
// 隱藏檔（".wav" 這種只有開頭一個點）視為沒有副檔名。
func IsAllowedAudioFile(filename string, allowedExtensions []string) bool {
	rawExt := filepath.Ext(filename)
	base := filepath.Base(filename)
	if strings.TrimSuffix(base, rawExt) == "" {
		return false
	}
	ext := strings.ToLower(strings.TrimPrefix(rawExt, "."))
	if ext == "" {
		return false
	}
	for _, allowed := range allowedExtensions {
		if ext == strings.ToLower(strings.TrimPrefix(allowed, ".")) {
			return true
		}
	}
	return false
}

// ===== GenderLabel =====
var validGenders = []core.GenderLabel{
	core.GenderMale,
	core.GenderFemale,
}

func IsValidGender(gender string) bool {
	for _, v := range validGenders {
		if core.GenderLabel(gender) == v {
			return true
		}
	}
	return false
}

// ===== AgeBracket =====
var validBrackets = []core.AgeBracket{
	core.BracketChild,
	core.BracketTeen,
	core.BracketTwenties,
	core.BracketThirties,
	core.BracketFourties,
	core.BracketFifties,
	core.BracketSixties,
	core.BracketSeventies,
	core.BracketEighties,
}

func IsValidAgeBracket(bracket string) bool {
	for _, v := range validBrackets {
		if core.AgeBracket(bracket) == v {
			return true
		}
	}
	return false
}

// ===== PlanTier =====
var validPlans = []core.PlanTier{
	core.PlanFree,
	core.PlanPro,
	core.PlanEnterprise,
}

func IsValidPlan(plan string) bool {
	for _, v := range validPlans {
		if core.PlanTier(plan) == v {
			return true
		}
	}
	return false
}

// ===== Role =====
var validRoles = []core.Role{
	core.RoleAdmin,
	core.RoleUser,
}

func IsValidRole(role string) bool {
	for _, v := range validRoles {
		if core.Role(role) == v {
			return true
		}
	}
	return false
}

// ===== Status =====
var validStatuses = []core.Status{
	core.StatusActive,
	core.StatusBlocked,
	core.StatusDeleted,
}

func IsValidStatus(status string) bool {
	for _, v := range validStatuses {
		if core.Status(status) == v {
			return true
		}
	}
	return false
}
