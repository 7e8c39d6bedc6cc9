package service

import (
	"context"
	"sort"
	"strings"

	"go-web-gallery/internal/model"
)

type photoLister interface {
	List(ctx context.Context, page int, limit int, pathFilter string) ([]model.GalleryItem, int, error)
	DistinctPaths(ctx context.Context) ([]string, error)
}

type GalleryService struct {
	photos   photoLister
	pageSize int
}

func NewGalleryService(photos photoLister, pageSize int) *GalleryService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &GalleryService{photos: photos, pageSize: pageSize}
}

func (s *GalleryService) List(ctx context.Context, page int, pathFilter string) (model.GalleryPage, error) {
	if page < 1 {
		page = 1
	}

	items, total, err := s.photos.List(ctx, page, s.pageSize, pathFilter)
	if err != nil {
		return model.GalleryPage{}, err
	}

	return model.GalleryPage{
		Items: items,
		Page:  page,
		Limit: s.pageSize,
		Total: total,
	}, nil
}

// Tree derives the browsable folder hierarchy from the flat file_path
// values stored with each picture.
func (s *GalleryService) Tree(ctx context.Context) ([]*model.FolderNode, error) {
	paths, err := s.photos.DistinctPaths(ctx)
	if err != nil {
		return nil, err
	}
	return BuildFolderTree(paths), nil
}

// BuildFolderTree merges flat slash-separated paths into a nested, sorted
// folder tree. "a/b" and "a/c" share the "a" node; empty segments are
// skipped.
func BuildFolderTree(paths []string) []*model.FolderNode {
	root := &model.FolderNode{}

	for _, p := range paths {
		segments := strings.Split(strings.Trim(strings.TrimSpace(p), "/"), "/")
		current := root
		prefix := ""

		for _, segment := range segments {
			if segment == "" {
				continue
			}

			if prefix == "" {
				prefix = segment
			} else {
				prefix = prefix + "/" + segment
			}

			var child *model.FolderNode
			for _, c := range current.Children {
				if c.Name == segment {
					child = c
					break
				}
			}

			if child == nil {
				child = &model.FolderNode{Name: segment, Path: prefix}
				current.Children = append(current.Children, child)
			}
			current = child
		}
	}

	sortFolderNodes(root.Children)
	return root.Children
}

func sortFolderNodes(nodes []*model.FolderNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
	for _, n := range nodes {
		sortFolderNodes(n.Children)
	}
}
