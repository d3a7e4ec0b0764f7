package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wellcontrol/model"
)

var db *gorm.DB

const batchSize = 400

// 工作簿约定的工作表名，一个 xlsx 文件对应一口井，井名取文件名
const (
	sheetWell    = "井档案"
	sheetLayers  = "流体层"
	sheetHole    = "井身结构"
	sheetPipe    = "管柱"
	sheetSurveys = "测斜"
)

func main() {
	host := flag.String("h", "", "mysql地址")
	port := flag.String("p", "", "mysql端口")
	user := flag.String("u", "", "mysql账号")
	password := flag.String("a", "", "mysql密码")
	fileDir := flag.String("d", "", "excel文件所在的目录")
	flag.Parse()

	if *host == "" || *port == "" || *password == "" {
		flag.Usage()
		return
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/wellcontrol?charset=utf8mb4&parseTime=True&loc=Local", *user, *password, *host, *port)

	var err error
	db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold: time.Second,
				LogLevel:      logger.Silent,
				Colorful:      false,
			},
		),
	})
	if err != nil {
		fmt.Printf("连接mysql失败: %v\n", err)
		return
	}

	files, err := os.ReadDir(*fileDir)
	if err != nil {
		fmt.Printf("读取目录失败: %v\n", err)
		return
	}

	totalImported := 0

	for _, file := range files {
		now := time.Now()
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".xlsx") {
			continue
		}

		filePath := filepath.Join(*fileDir, file.Name())
		wellName := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))

		imported, err := importWell(filePath, wellName)
		if err != nil {
			fmt.Printf("导入文件 %s 失败: %v\n", filePath, err)
		} else {
			fmt.Printf("成功导入文件 %s，%d 条记录，耗时 %.2fs\n", filePath, imported, time.Since(now).Seconds())
			totalImported += imported
		}
	}

	fmt.Printf("\n总计导入 %d 条记录\n", totalImported)
}

// importWell 一个工作簿导入一口井：井档案 + 流体层 + 井身结构 + 管柱 + 测斜
func importWell(path, wellName string) (int, error) {
	xlsx, err := excelize.OpenFile(path)
	if err != nil {
		fmt.Printf("open excel file error: %v\n", err)
		return 0, err
	}
	defer xlsx.Close()

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	well, err := upsertWell(tx, xlsx, wellName)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	imported := 0
	sheets := []struct {
		name string
		fn   func(*gorm.DB, *excelize.File, int64) (int, error)
	}{
		{sheetLayers, importLayers},
		{sheetHole, importHoleSections},
		{sheetPipe, importPipeSections},
		{sheetSurveys, importSurveys},
	}
	for _, s := range sheets {
		n, err := s.fn(tx, xlsx, well.ID)
		if err != nil {
			tx.Rollback()
			return imported, fmt.Errorf("导入工作表 %s 出错: %v", s.name, err)
		}
		imported += n
	}

	if err := tx.Commit().Error; err != nil {
		return imported, fmt.Errorf("事务提交失败: %v", err)
	}

	return imported, nil
}

// upsertWell 井档案按名字复用：已有则更新档案字段，没有则新建
func upsertWell(tx *gorm.DB, xlsx *excelize.File, wellName string) (*model.Well, error) {
	well := model.Well{Name: wellName}
	if rows, ok, err := sheetRows(xlsx, sheetWell); err != nil {
		return nil, err
	} else if ok && len(rows[1]) >= 3 {
		row := rows[1]
		well.TotalDepth = cast.ToFloat64(row[0])
		well.ControlMD = cast.ToFloat64(row[1])
		well.TargetESD = cast.ToFloat64(row[2])
		if len(row) >= 5 {
			well.Dial600 = cast.ToFloat64(row[3])
			well.Dial300 = cast.ToFloat64(row[4])
		}
	}

	var existing model.Well
	err := tx.Where("name = ?", wellName).First(&existing).Error
	switch {
	case err == nil:
		well.ID = existing.ID
		well.CreatedAt = existing.CreatedAt
		if err := tx.Model(&model.Well{}).Where("id = ?", existing.ID).Updates(map[string]any{
			"total_depth": well.TotalDepth,
			"control_md":  well.ControlMD,
			"target_esd":  well.TargetESD,
			"dial600":     well.Dial600,
			"dial300":     well.Dial300,
		}).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(&well).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return &well, nil
}

// sheetRows 读一个工作表，不存在或只有表头时跳过
func sheetRows(xlsx *excelize.File, sheet string) ([][]string, bool, error) {
	idx, err := xlsx.GetSheetIndex(sheet)
	if err != nil || idx == -1 {
		return nil, false, nil
	}
	rows, err := xlsx.GetRows(sheet)
	if err != nil {
		return nil, false, err
	}
	if len(rows) < 2 {
		return nil, false, nil
	}
	return rows, true, nil
}

// 流体层：密度 顶深 底深 [K n] [600转 300转] [位置] [颜色]
func importLayers(tx *gorm.DB, xlsx *excelize.File, wellID int64) (int, error) {
	rows, ok, err := sheetRows(xlsx, sheetLayers)
	if err != nil || !ok {
		return 0, err
	}

	if err := tx.Where("well_id = ?", wellID).Delete(&model.FluidLayerRecord{}).Error; err != nil {
		return 0, err
	}

	var records []model.FluidLayerRecord
	for rowNum, row := range rows[1:] {
		if len(row) < 3 {
			fmt.Printf("工作表 %s 第 %d 行列数不足，跳过\n", sheetLayers, rowNum+2)
			continue
		}
		rec := model.FluidLayerRecord{
			WellID:   wellID,
			Density:  cast.ToFloat64(row[0]),
			TopMD:    cast.ToFloat64(row[1]),
			BottomMD: cast.ToFloat64(row[2]),
		}
		if len(row) >= 5 {
			rec.K = cast.ToFloat64(row[3])
			rec.N = cast.ToFloat64(row[4])
			rec.HasKN = rec.K > 0 && rec.N > 0
		}
		if len(row) >= 7 {
			rec.Dial600 = cast.ToFloat64(row[5])
			rec.Dial300 = cast.ToFloat64(row[6])
		}
		if len(row) >= 8 {
			rec.Placement = strings.TrimSpace(row[7])
		}
		if len(row) >= 9 {
			rec.Color = strings.TrimSpace(row[8])
		}
		records = append(records, rec)
	}

	return insertBatch(tx, records)
}

// 井身结构：顶深 底深 内径
func importHoleSections(tx *gorm.DB, xlsx *excelize.File, wellID int64) (int, error) {
	rows, ok, err := sheetRows(xlsx, sheetHole)
	if err != nil || !ok {
		return 0, err
	}

	if err := tx.Where("well_id = ?", wellID).Delete(&model.HoleSection{}).Error; err != nil {
		return 0, err
	}

	var records []model.HoleSection
	for rowNum, row := range rows[1:] {
		if len(row) < 3 {
			fmt.Printf("工作表 %s 第 %d 行列数不足，跳过\n", sheetHole, rowNum+2)
			continue
		}
		records = append(records, model.HoleSection{
			WellID:        wellID,
			TopMD:         cast.ToFloat64(row[0]),
			BottomMD:      cast.ToFloat64(row[1]),
			InnerDiameter: cast.ToFloat64(row[2]),
		})
	}

	return insertBatch(tx, records)
}

// 管柱：顶深 底深 外径 内径
func importPipeSections(tx *gorm.DB, xlsx *excelize.File, wellID int64) (int, error) {
	rows, ok, err := sheetRows(xlsx, sheetPipe)
	if err != nil || !ok {
		return 0, err
	}

	if err := tx.Where("well_id = ?", wellID).Delete(&model.PipeSection{}).Error; err != nil {
		return 0, err
	}

	var records []model.PipeSection
	for rowNum, row := range rows[1:] {
		if len(row) < 4 {
			fmt.Printf("工作表 %s 第 %d 行列数不足，跳过\n", sheetPipe, rowNum+2)
			continue
		}
		records = append(records, model.PipeSection{
			WellID:        wellID,
			TopMD:         cast.ToFloat64(row[0]),
			BottomMD:      cast.ToFloat64(row[1]),
			OuterDiameter: cast.ToFloat64(row[2]),
			InnerDiameter: cast.ToFloat64(row[3]),
		})
	}

	return insertBatch(tx, records)
}

// 测斜：测深 垂深
func importSurveys(tx *gorm.DB, xlsx *excelize.File, wellID int64) (int, error) {
	rows, ok, err := sheetRows(xlsx, sheetSurveys)
	if err != nil || !ok {
		return 0, err
	}

	if err := tx.Where("well_id = ?", wellID).Delete(&model.SurveyStationRecord{}).Error; err != nil {
		return 0, err
	}

	var records []model.SurveyStationRecord
	for rowNum, row := range rows[1:] {
		if len(row) < 2 {
			fmt.Printf("工作表 %s 第 %d 行列数不足，跳过\n", sheetSurveys, rowNum+2)
			continue
		}
		records = append(records, model.SurveyStationRecord{
			WellID: wellID,
			MD:     cast.ToFloat64(row[0]),
			TVD:    cast.ToFloat64(row[1]),
		})
	}

	return insertBatch(tx, records)
}

func insertBatch[T any](tx *gorm.DB, records []T) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if err := tx.CreateInBatches(records, batchSize).Error; err != nil {
		return 0, err
	}
	return len(records), nil
}
