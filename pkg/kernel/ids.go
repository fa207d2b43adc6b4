package kernel

import "github.com/google/uuid"

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func GenerateUserID() UserID     { return UserID(uuid.NewString()) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

type AnalysisID string

func NewAnalysisID(id string) AnalysisID { return AnalysisID(id) }
func GenerateAnalysisID() AnalysisID     { return AnalysisID(uuid.NewString()) }
func (a AnalysisID) String() string      { return string(a) }
func (a AnalysisID) IsEmpty() bool       { return string(a) == "" }
