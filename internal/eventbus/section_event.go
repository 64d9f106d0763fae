package eventbus

type SectionEventType string

const (
	SectionEventEdited    SectionEventType = "SectionEdited"
	SectionEventRefined   SectionEventType = "SectionRefined"
	SectionEventRestored  SectionEventType = "SectionRestored"
	SectionEventGenerated SectionEventType = "SectionGenerated"
	SectionEventFeedback  SectionEventType = "FeedbackAdded"
)

// AllSectionEventTypes 全部章节事件类型
var AllSectionEventTypes = []SectionEventType{
	SectionEventEdited,
	SectionEventRefined,
	SectionEventRestored,
	SectionEventGenerated,
	SectionEventFeedback,
}

type SectionEvent struct {
	Type         SectionEventType
	ProjectID    uint
	SectionID    uint
	RefinementID uint // 仅精修与恢复事件携带
	FeedbackID   uint // 仅反馈事件携带
}

type SectionEventHandler = Handler[SectionEvent]
type SectionEventBus = Bus[SectionEventType, SectionEvent]

func NewSectionEventBus() *SectionEventBus {
	return NewBus[SectionEventType, SectionEvent]()
}
