package store

import (
	"fmt"
	"os"
	"strings"
)

// Path addresses a household collection: a JSON file, a MongoDB
// collection written as db.coll or a PostgreSQL database URL.
type Path struct {
	File string
	DB   string
	Coll string
	URL  string
}

func NewPath(filePathOrColl string) (*Path, error) {
	s := strings.TrimSpace(filePathOrColl)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://") {
		return &Path{URL: s}, nil
	}
	// 已存在的文件或尚未创建的json文件
	if _, err := os.Stat(s); err == nil || strings.HasSuffix(s, ".json") {
		return &Path{File: s}, nil
	}
	splitted := strings.Split(s, ".")
	if len(splitted) != 2 || splitted[0] == "" || splitted[1] == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, s)
	}
	return &Path{
		DB:   splitted[0],
		Coll: splitted[1],
	}, nil
}

func (p *Path) GetDb() string {
	return p.DB
}

func (p *Path) GetColl() string {
	return p.Coll
}

func (p *Path) String() string {
	switch {
	case p.File != "":
		return p.File
	case p.URL != "":
		// 不输出密码
		if i := strings.LastIndex(p.URL, "@"); i >= 0 {
			scheme := p.URL[:strings.Index(p.URL, "://")+3]
			return scheme + "***" + p.URL[i:]
		}
		return p.URL
	}
	return p.DB + "." + p.Coll
}
