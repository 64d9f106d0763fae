package editor

import (
	"context"
	"sort"
	"sync"

	"github.com/divy-03/DocAI/internal/model"
	"k8s.io/klog/v2"
)

// Update 一次已生效的本地修改
type Update struct {
	SectionID uint
	Patch     SectionPatch
	Section   model.Section
}

type Observer func(Update)

// Store 当前项目章节的本地副本
// Load 之后只能通过 ApplyLocalUpdate 修改
type Store struct {
	mu        sync.RWMutex
	loader    ProjectLoader
	project   model.Project
	sections  []model.Section
	observers map[int]Observer
	nextID    int
}

func NewStore(loader ProjectLoader) *Store {
	return &Store{loader: loader, observers: make(map[int]Observer)}
}

// Load 拉取项目并整体替换本地章节
func (s *Store) Load(ctx context.Context, projectID uint) error {
	project, err := s.loader.GetProject(ctx, projectID)
	if err != nil {
		klog.V(6).Infof("[Store] 加载项目失败: projectID=%d, error=%v", projectID, err)
		return newFetchError(err, "project", projectID)
	}

	sections := make([]model.Section, len(project.Sections))
	copy(sections, project.Sections)
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })

	s.mu.Lock()
	s.project = *project
	s.project.Sections = nil
	s.sections = sections
	s.mu.Unlock()

	klog.V(6).Infof("[Store] 项目已加载: projectID=%d, sections=%d", projectID, len(sections))
	return nil
}

// ApplyLocalUpdate 合并修改到对应章节，未知 ID 忽略
func (s *Store) ApplyLocalUpdate(sectionID uint, patch SectionPatch) {
	s.mu.Lock()
	index := s.indexOf(sectionID)
	if index < 0 {
		s.mu.Unlock()
		klog.V(6).Infof("[Store] 忽略未知章节的修改: sectionID=%d", sectionID)
		return
	}
	section := &s.sections[index]
	if patch.Title != nil {
		section.Title = *patch.Title
	}
	if patch.Content != nil {
		section.Content = *patch.Content
	}
	update := Update{SectionID: sectionID, Patch: patch, Section: *section}
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	for _, o := range observers {
		o(update)
	}
}

// Observe 注册修改监听，返回取消函数
func (s *Store) Observe(o Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers[id] = o
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Store) Section(sectionID uint) (model.Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	index := s.indexOf(sectionID)
	if index < 0 {
		return model.Section{}, false
	}
	return s.sections[index], true
}

func (s *Store) SectionAt(index int) (model.Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.sections) {
		return model.Section{}, false
	}
	return s.sections[index], true
}

// Sections 按顺序返回全部章节的副本
func (s *Store) Sections() []model.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Section, len(s.sections))
	copy(out, s.sections)
	return out
}

// Project 当前项目信息，不含章节
func (s *Store) Project() model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sections)
}

// Reset 清空本地数据，监听保留
func (s *Store) Reset() {
	s.mu.Lock()
	s.project = model.Project{}
	s.sections = nil
	s.mu.Unlock()
}

func (s *Store) indexOf(sectionID uint) int {
	for i := range s.sections {
		if s.sections[i].ID == sectionID {
			return i
		}
	}
	return -1
}
