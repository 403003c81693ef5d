package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/BearBump/TrackGate/internal/integrations/courier/chunil"
	"github.com/BearBump/TrackGate/internal/integrations/courier/cjlogistics"
	"github.com/BearBump/TrackGate/internal/integrations/courier/cupost"
	"github.com/BearBump/TrackGate/internal/integrations/courier/cvsnet"
	"github.com/BearBump/TrackGate/internal/integrations/courier/daesin"
	"github.com/BearBump/TrackGate/internal/integrations/courier/daewoon"
	"github.com/BearBump/TrackGate/internal/integrations/courier/epost"
	"github.com/BearBump/TrackGate/internal/integrations/courier/gspostbox"
	"github.com/BearBump/TrackGate/internal/integrations/courier/gtxlogis"
	"github.com/BearBump/TrackGate/internal/integrations/courier/hanips"
	"github.com/BearBump/TrackGate/internal/integrations/courier/hanjin"
	"github.com/BearBump/TrackGate/internal/integrations/courier/hdexp"
	"github.com/BearBump/TrackGate/internal/integrations/courier/honamlogis"
	"github.com/BearBump/TrackGate/internal/integrations/courier/ilyang"
	"github.com/BearBump/TrackGate/internal/integrations/courier/kdexp"
	"github.com/BearBump/TrackGate/internal/integrations/courier/kunyoung"
	"github.com/BearBump/TrackGate/internal/integrations/courier/logen"
	"github.com/BearBump/TrackGate/internal/integrations/courier/lottelogistics"
	"github.com/BearBump/TrackGate/internal/integrations/courier/nonghyup"
	"github.com/BearBump/TrackGate/internal/integrations/courier/sebang"
	"github.com/BearBump/TrackGate/internal/integrations/courier/slx"
	"github.com/BearBump/TrackGate/internal/integrations/courier/yongma"
	"github.com/BearBump/TrackGate/internal/tracker"
)

// Options задаются один раз при сборке реестра.
type Options struct {
	// BaseURLs — переопределения адресов бэкендов по id перевозчика
	// (нужно для стендов и тестов); пустая строка = боевой адрес.
	BaseURLs map[string]string
}

// Registry владеет каталогом перевозчиков и кэшем инстансов адаптеров.
// Адаптеры не имеют состояния между вызовами, поэтому кэш — это только
// экономия на конструировании, а не требование корректности.
type Registry struct {
	opts  Options
	infos []tracker.CarrierInfo
	byID  map[string]tracker.CarrierInfo

	factories map[string]func(baseURL string) tracker.Adapter

	mu       sync.RWMutex
	adapters map[string]tracker.Adapter
}

func New(opts Options) *Registry {
	r := &Registry{
		opts:      opts,
		infos:     carrierCatalog(),
		byID:      make(map[string]tracker.CarrierInfo),
		factories: adapterFactories(),
		adapters:  make(map[string]tracker.Adapter),
	}
	for _, info := range r.infos {
		r.byID[info.ID] = info
	}
	return r
}

func canon(carrierID string) string {
	return strings.ToUpper(strings.TrimSpace(carrierID))
}

// Track — единственная публичная операция движка.
// Никогда не возвращает ошибку: неизвестный перевозчик, как и любой сбой
// адаптера, приходит вызывающему валидным TrackInfo с success=false.
func (r *Registry) Track(ctx context.Context, carrierID, trackingNumber string) tracker.TrackInfo {
	id := canon(carrierID)
	a, ok := r.adapter(id)
	if !ok {
		// имя берём из каталога, даже если адаптера к перевозчику ещё нет
		name := carrierID
		if info, known := r.byID[id]; known {
			name = info.DisplayName
		}
		ref := tracker.CarrierRef{ID: carrierID, Name: name}
		return tracker.ErrorResult(ref, trackingNumber, fmt.Sprintf("unsupported carrier: %s", name))
	}
	return a.Track(ctx, trackingNumber)
}

func (r *Registry) adapter(id string) (tracker.Adapter, bool) {
	r.mu.RLock()
	a, ok := r.adapters[id]
	r.mu.RUnlock()
	if ok {
		return a, true
	}

	factory, ok := r.factories[id]
	if !ok {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.adapters[id]; ok {
		return a, true
	}
	a = factory(r.opts.BaseURLs[id])
	r.adapters[id] = a
	return a, true
}

// SupportedCarriers — только перевозчики, у которых есть адаптер.
// В каталоге есть и записи без адаптера, в интерфейсы они не попадают.
func (r *Registry) SupportedCarriers() []tracker.CarrierInfo {
	out := make([]tracker.CarrierInfo, 0, len(r.factories))
	for _, info := range r.infos {
		if _, ok := r.factories[info.ID]; ok {
			out = append(out, info)
		}
	}
	return out
}

func (r *Registry) IsSupported(carrierID string) bool {
	_, ok := r.factories[canon(carrierID)]
	return ok
}

func (r *Registry) CarrierByID(carrierID string) *tracker.CarrierInfo {
	if info, ok := r.byID[canon(carrierID)]; ok {
		return &info
	}
	return nil
}

func (r *Registry) AllCarriers() []tracker.CarrierInfo {
	out := make([]tracker.CarrierInfo, len(r.infos))
	copy(out, r.infos)
	return out
}

func adapterFactories() map[string]func(baseURL string) tracker.Adapter {
	return map[string]func(baseURL string) tracker.Adapter{
		"CJ":        func(u string) tracker.Adapter { return cjlogistics.New(u) },
		"EPOST":     func(u string) tracker.Adapter { return epost.New(u) },
		"HANJIN":    func(u string) tracker.Adapter { return hanjin.New(u) },
		"LOTTE":     func(u string) tracker.Adapter { return lottelogistics.New(u) },
		"LOGEN":     func(u string) tracker.Adapter { return logen.New(u) },
		"KDEXP":     func(u string) tracker.Adapter { return kdexp.New(u) },
		"DAESIN":    func(u string) tracker.Adapter { return daesin.New(u) },
		"ILYANG":    func(u string) tracker.Adapter { return ilyang.New(u) },
		"CHUNIL":    func(u string) tracker.Adapter { return chunil.New(u) },
		"HDEXP":     func(u string) tracker.Adapter { return hdexp.New(u) },
		"CUPOST":    func(u string) tracker.Adapter { return cupost.New(u) },
		"GSPOSTBOX": func(u string) tracker.Adapter { return gspostbox.New(u) },
		"KUNYOUNG":  func(u string) tracker.Adapter { return kunyoung.New(u) },
		"HANIPS":    func(u string) tracker.Adapter { return hanips.New(u) },
		"SLX":       func(u string) tracker.Adapter { return slx.New(u) },
		"HONAM":     func(u string) tracker.Adapter { return honamlogis.New(u) },
		"SEBANG":    func(u string) tracker.Adapter { return sebang.New(u) },
		"NONGHYUP":  func(u string) tracker.Adapter { return nonghyup.New(u) },
		"YONGMA":    func(u string) tracker.Adapter { return yongma.New(u) },
		"DAEWOON":   func(u string) tracker.Adapter { return daewoon.New(u) },
		"CVSNET":    func(u string) tracker.Adapter { return cvsnet.New(u) },
		"GTX":       func(u string) tracker.Adapter { return gtxlogis.New(u) },
	}
}

// Каталог определяет и порядок выдачи (в т.ч. порядок кандидатов предсказания).
func carrierCatalog() []tracker.CarrierInfo {
	return []tracker.CarrierInfo{
		{ID: "CJ", Name: "kr.cjlogistics", DisplayName: "CJ대한통운", TrackingNumberLengths: []int{10, 12}, TestTrackingNumber: "123456789013"},
		{ID: "HANJIN", Name: "kr.hanjin", DisplayName: "한진택배", TrackingNumberLengths: []int{12, 14}, TestTrackingNumber: "123456789013"},
		{ID: "LOTTE", Name: "kr.lotte", DisplayName: "롯데택배", TrackingNumberLengths: []int{12, 13}, TestTrackingNumber: "404123456785"},
		{ID: "EPOST", Name: "kr.epost", DisplayName: "우체국택배", TrackingNumberLengths: []int{13}, TestTrackingNumber: "1234567890123"},
		{ID: "LOGEN", Name: "kr.logen", DisplayName: "로젠택배", TrackingNumberLengths: []int{11}, TestTrackingNumber: "12345678901"},
		{ID: "KDEXP", Name: "kr.kdexp", DisplayName: "경동택배", TrackingNumberLengths: []int{9, 10, 11, 12, 13, 14, 15, 16}},
		{ID: "DAESIN", Name: "kr.daesin", DisplayName: "대신택배"},
		{ID: "ILYANG", Name: "kr.ilyang", DisplayName: "일양로지스"},
		{ID: "CHUNIL", Name: "kr.chunil", DisplayName: "천일택배"},
		{ID: "HDEXP", Name: "kr.hdexp", DisplayName: "합동택배"},
		{ID: "CUPOST", Name: "kr.cupost", DisplayName: "CU편의점택배"},
		{ID: "GSPOSTBOX", Name: "kr.gspostbox", DisplayName: "GS Postbox 택배"},
		{ID: "KUNYOUNG", Name: "kr.kunyoung", DisplayName: "건영택배"},
		{ID: "HANIPS", Name: "kr.hanips", DisplayName: "한의사랑택배"},
		{ID: "SLX", Name: "kr.slx", DisplayName: "SLX택배", TrackingNumberLengths: []int{12}, TrackingNumberPattern: `^[0-9A-Za-z]{12}$`},
		{ID: "HONAM", Name: "kr.honamlogis", DisplayName: "호남택배"},
		{ID: "SEBANG", Name: "kr.sebang", DisplayName: "세방택배"},
		{ID: "NONGHYUP", Name: "kr.nonghyup", DisplayName: "농협택배"},
		{ID: "YONGMA", Name: "kr.yongma", DisplayName: "용마로지스"},
		{ID: "DAEWOON", Name: "kr.daewoon", DisplayName: "대운글로벌"},
		{ID: "CVSNET", Name: "kr.cvsnet", DisplayName: "편의점택배"},
		{ID: "GTX", Name: "kr.gtxlogis", DisplayName: "GTX로지스"},

		// каталог знает и перевозчиков без адаптера: их displayName нужен
		// для внятной ошибки "unsupported carrier"
		{ID: "EMS", Name: "kr.epost.ems", DisplayName: "EMS"},
		{ID: "FEDEX", Name: "un.fedex", DisplayName: "FedEx"},
		{ID: "DHL", Name: "un.dhl", DisplayName: "DHL"},
	}
}
