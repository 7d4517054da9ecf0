package entity

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Level уровень иерархии категорий
type Level string

const (
	LevelMain Level = "main"
	LevelSub1 Level = "sub1"
	LevelSub2 Level = "sub2"
)

// ParseLevel принимает main, sub1, sub2 и старые имена типов surve1, surve2
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "main":
		return LevelMain, nil
	case "sub1", "surve1":
		return LevelSub1, nil
	case "sub2", "surve2":
		return LevelSub2, nil
	}
	return "", fmt.Errorf("unknown category level %q", s)
}

// Child уровень дочерних узлов, у sub2 детей нет
func (l Level) Child() (Level, bool) {
	switch l {
	case LevelMain:
		return LevelSub1, true
	case LevelSub1:
		return LevelSub2, true
	}
	return "", false
}

// CategoryRef явный адрес узла: уровень + id
type CategoryRef struct {
	Level Level  `json:"level"`
	ID    string `json:"id"`
}

func (r CategoryRef) String() string {
	return string(r.Level) + "/" + r.ID
}

// Маркеры в составных id подкатегорий: <mainId>-sub1-<rand>, <sub1Id>-sub2-<rand>
const (
	sub1Marker = "-sub1-"
	sub2Marker = "-sub2-"
)

// InferLevel определяет уровень по форме id.
// Нужен только для старых ссылок без уровня, новые маршруты передают уровень явно.
func InferLevel(id string) Level {
	switch {
	case strings.Contains(id, sub2Marker):
		return LevelSub2
	case strings.Contains(id, sub1Marker):
		return LevelSub1
	default:
		return LevelMain
	}
}

// ChildID составной id дочернего узла
func ChildID(parentID string, child Level, suffix string) string {
	if child == LevelSub2 {
		return parentID + sub2Marker + suffix
	}
	return parentID + sub1Marker + suffix
}

// CategoryStatus статус отображения на витрине
type CategoryStatus string

const (
	StatusActive   CategoryStatus = "Active"
	StatusInactive CategoryStatus = "Inactive"
)

func (s CategoryStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// DefaultSortOrder новые узлы уходят в конец списка
const DefaultSortOrder = 9999

// Category узел иерархии. ParentID пуст для main,
// mainCategoryId для sub1 и subCategory1Id для sub2.
type Category struct {
	ID        string         `json:"categoryId"`
	Level     Level          `json:"level"`
	Name      string         `json:"name"`
	Code      string         `json:"code,omitempty"`
	Status    CategoryStatus `json:"status"`
	Order     int            `json:"order"`
	ParentID  string         `json:"parentId,omitempty"`
	ImageURL  string         `json:"imageUrl,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Ref адрес узла
func (c *Category) Ref() CategoryRef {
	return CategoryRef{Level: c.Level, ID: c.ID}
}

// CategorySummary проекция для списков
type CategorySummary struct {
	CategoryID string         `json:"categoryId"`
	Name       string         `json:"name"`
	Code       string         `json:"code,omitempty"`
	Status     CategoryStatus `json:"status"`
	Order      int            `json:"order"`
	ParentID   string         `json:"parentId,omitempty"`
	ImageURL   string         `json:"imageUrl,omitempty"`
	ChildCount int            `json:"childCount"`
}

// CategoryPatch частичное обновление, nil поля не трогаются
type CategoryPatch struct {
	Name   *string
	Code   *string
	Status *CategoryStatus
	Order  *int
}

func (p CategoryPatch) IsEmpty() bool {
	return p.Name == nil && p.Code == nil && p.Status == nil && p.Order == nil
}

// CategoryImage файл изображения основной категории
type CategoryImage struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// DeletePolicy что делать с дочерними узлами при удалении родителя
type DeletePolicy string

const (
	DeletePolicyOrphan  DeletePolicy = "orphan"  // удалить только узел, дети остаются
	DeletePolicyCascade DeletePolicy = "cascade" // удалить узел и всех потомков
	DeletePolicyBlock   DeletePolicy = "block"   // запретить удаление при наличии детей
)

func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch p := DeletePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DeletePolicyOrphan, DeletePolicyCascade, DeletePolicyBlock:
		return p, nil
	}
	return "", fmt.Errorf("unknown delete policy %q", s)
}
